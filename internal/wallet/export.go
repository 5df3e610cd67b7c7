package wallet

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const statementSheet = "Statement"

var statementHeaders = []string{"Date", "Reference", "Type", "Counterparty", "Category", "Note", "Amount", "Fee", "Balance Before", "Balance After", "Status"}

// ExportStatement writes the user's full history, newest first, as XLSX.
func (s *Service) ExportStatement(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	txs, err := s.Repo.GetTransactions(ctx, userID, 0, 0)
	if err != nil {
		return err
	}

	f, err := BuildStatement(txs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write statement: %w", err)
	}
	return nil
}

func BuildStatement(txs []Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	for i, h := range statementHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(statementSheet, cell, h)
	}

	for idx, tx := range txs {
		row := idx + 2
		counterparty := tx.CounterpartyName
		if tx.CounterpartyPhone != "" {
			counterparty = fmt.Sprintf("%s (%s)", tx.CounterpartyName, tx.CounterpartyPhone)
		}

		values := []interface{}{
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
			tx.Reference,
			string(tx.Type),
			counterparty,
			tx.Category,
			tx.Note,
			signedAmount(tx),
			tx.Fee,
			tx.BalanceBefore,
			tx.BalanceAfter,
			string(tx.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(statementSheet, cell, v)
		}
	}

	f.SetColWidth(statementSheet, "A", "A", 20)
	f.SetColWidth(statementSheet, "B", "B", 36)
	f.SetColWidth(statementSheet, "D", "D", 30)
	f.SetColWidth(statementSheet, "F", "F", 30)

	return f, nil
}

func signedAmount(tx Transaction) int64 {
	if tx.Type.IsDebit() {
		return -tx.Amount
	}
	return tx.Amount
}
