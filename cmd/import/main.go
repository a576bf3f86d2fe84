// Command import bulk-loads historical customer and loan data from CSV files
// into the database. It bypasses the HTTP API and writes through pgx CopyFrom,
// preserving the IDs carried in the source files.
//
// Expected customer columns:
//
//	customer_id,first_name,last_name,age,phone_number,monthly_salary,approved_limit,current_debt
//
// Expected loan columns:
//
//	loan_id,customer_id,loan_amount,tenure,interest_rate,monthly_installment,emis_paid_on_time,date_of_approval,end_date
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"credit-engine/internal/config"
	"credit-engine/internal/infrastructure/database/postgres"
	"credit-engine/internal/infrastructure/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dateLayout = "2006-01-02"

func main() {
	customersPath := flag.String("customers", "", "path to the customers CSV file")
	loansPath := flag.String("loans", "", "path to the loans CSV file")
	configPath := flag.String("config", ".", "directory containing config.yml")
	flag.Parse()

	if *customersPath == "" && *loansPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -customers and/or -loans")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	ctx := context.Background()
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if *customersPath != "" {
		count, err := importCustomers(ctx, dbPool, *customersPath)
		if err != nil {
			logger.Error("Customer import failed", "file", *customersPath, "error", err)
			os.Exit(1)
		}
		logger.Info("Imported customers", "file", *customersPath, "rows", count)
	}

	if *loansPath != "" {
		count, err := importLoans(ctx, dbPool, *loansPath)
		if err != nil {
			logger.Error("Loan import failed", "file", *loansPath, "error", err)
			os.Exit(1)
		}
		logger.Info("Imported loans", "file", *loansPath, "rows", count)
	}
}

func importCustomers(ctx context.Context, dbPool *pgxpool.Pool, path string) (int64, error) {
	rows, err := readCSVRows(path, 8, func(record []string) ([]interface{}, error) {
		customerID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id %q: %w", record[0], err)
		}
		age, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("invalid age %q: %w", record[3], err)
		}
		monthlySalary, err := strconv.ParseInt(record[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly_salary %q: %w", record[5], err)
		}
		approvedLimit, err := strconv.ParseInt(record[6], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid approved_limit %q: %w", record[6], err)
		}
		currentDebt, err := strconv.ParseInt(record[7], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid current_debt %q: %w", record[7], err)
		}
		now := time.Now()
		return []interface{}{customerID, record[1], record[2], age, record[4], monthlySalary, approvedLimit, currentDebt, now, now}, nil
	})
	if err != nil {
		return 0, err
	}

	return dbPool.CopyFrom(ctx,
		pgx.Identifier{"customers"},
		[]string{"id", "first_name", "last_name", "age", "phone_number", "monthly_salary", "approved_limit", "current_debt", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
}

func importLoans(ctx context.Context, dbPool *pgxpool.Pool, path string) (int64, error) {
	rows, err := readCSVRows(path, 9, func(record []string) ([]interface{}, error) {
		loanID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid loan_id %q: %w", record[0], err)
		}
		customerID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id %q: %w", record[1], err)
		}
		amount, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid loan_amount %q: %w", record[2], err)
		}
		tenure, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("invalid tenure %q: %w", record[3], err)
		}
		interestRate, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid interest_rate %q: %w", record[4], err)
		}
		installment, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly_installment %q: %w", record[5], err)
		}
		paidOnTime, err := strconv.ParseBool(record[6])
		if err != nil {
			return nil, fmt.Errorf("invalid emis_paid_on_time %q: %w", record[6], err)
		}
		approval, err := time.Parse(dateLayout, record[7])
		if err != nil {
			return nil, fmt.Errorf("invalid date_of_approval %q: %w", record[7], err)
		}
		endDate, err := time.Parse(dateLayout, record[8])
		if err != nil {
			return nil, fmt.Errorf("invalid end_date %q: %w", record[8], err)
		}
		now := time.Now()
		return []interface{}{loanID, customerID, amount, tenure, interestRate, installment, paidOnTime, approval, endDate, now, now}, nil
	})
	if err != nil {
		return 0, err
	}

	return dbPool.CopyFrom(ctx,
		pgx.Identifier{"loans"},
		[]string{"id", "customer_id", "loan_amount", "tenure", "interest_rate", "monthly_installment", "emis_paid_on_time", "date_of_approval", "end_date", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
}

// readCSVRows parses every record after the header row. The whole file is
// parsed before anything is written so a malformed row aborts the import
// instead of leaving it half done.
func readCSVRows(path string, wantFields int, convert func([]string) ([]interface{}, error)) ([][]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = wantFields

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var rows [][]interface{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", path, line, err)
		}
		row, err := convert(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
