package main

import (
	"fmt"
	"net/http"

	"github.com/ph-hris/payroll-backend-go/internal/config"
	appHTTP "github.com/ph-hris/payroll-backend-go/internal/handler/http"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/taexport"
	"github.com/ph-hris/payroll-backend-go/internal/repository/postgresql"
	anomalyService "github.com/ph-hris/payroll-backend-go/internal/service/anomaly"
	budgetService "github.com/ph-hris/payroll-backend-go/internal/service/budget"
	payrollService "github.com/ph-hris/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	batchRepo := postgresql.NewTABatchRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	budgetRepo := postgresql.NewBudgetRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	exportClient := taexport.NewClient(cfg.TAExport)
	calculator := payrollService.NewStatutoryCalculator()

	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, batchRepo, budgetRepo, exportClient, calculator)
	budgetSvc := budgetService.NewBudgetService(db, budgetRepo, payrollRepo)
	anomalySvc := anomalyService.NewAnomalyService(payrollRepo, employeeRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	budgetHandler := appHTTP.NewBudgetHandler(budgetSvc)
	anomalyHandler := appHTTP.NewAnomalyHandler(anomalySvc)

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		budgetHandler,
		anomalyHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
