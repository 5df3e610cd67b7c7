package wallet

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/bill"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/user"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/id"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
	"gorm.io/gorm"
)

// PinVerifier confirms the acting user's PIN before money moves.
type PinVerifier interface {
	AuthenticateForAction(ctx context.Context, userID uuid.UUID, pin string) (*user.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, action notification.ActionType) (*notification.Notification, error)
	Dispatch(ctx context.Context, notes ...notification.Notification)
}

type TransferInput struct {
	RecipientPhone string `json:"recipient_phone"`
	Amount         int64  `json:"amount"`
	Note           string `json:"note"`
	Pin            string `json:"pin"`
}

type TransferResult struct {
	Reference string       `json:"reference"`
	Debit     *Transaction `json:"debit"`
	Credit    *Transaction `json:"-"`
	Recipient string       `json:"recipient"`
}

type BillInput struct {
	Category      string `json:"category" validate:"required"`
	Provider      string `json:"provider" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	Amount        int64  `json:"amount" validate:"gt=0"`
	Pin           string `json:"pin"`
}

var billMessages = map[string]string{
	"category":       "Category is required",
	"provider":       "Provider is required",
	"account_number": "Account number is required",
	"amount":         "Amount must be greater than zero",
}

type BillResult struct {
	Bill        *bill.Bill   `json:"bill"`
	Transaction *Transaction `json:"transaction"`
}

type DepositInput struct {
	Amount int64  `json:"amount"`
	Pin    string `json:"pin"`
}

// Service is the ledger. Each mutating call is all-or-nothing: balances,
// history rows, bill records and notifications commit together.
type Service struct {
	Config   config.Config
	DB       *gorm.DB
	Repo     Repository
	Users    user.Repository
	Bills    bill.Repository
	Pins     PinVerifier
	Notifier Notifier
}

func NewService(cfg config.Config, db *gorm.DB, repo Repository, users user.Repository, bills bill.Repository, pins PinVerifier, notifier Notifier) *Service {
	return &Service{
		Config:   cfg,
		DB:       db,
		Repo:     repo,
		Users:    users,
		Bills:    bills,
		Pins:     pins,
		Notifier: notifier,
	}
}

func (s *Service) Transfer(ctx context.Context, senderID uuid.UUID, in TransferInput) (*TransferResult, error) {
	if in.Amount < s.Config.MinTransactionAmount {
		return nil, fmt.Errorf("%w: minimum amount is %s", apperr.ErrInvalidAmount, utils.FormatNaira(s.Config.MinTransactionAmount))
	}

	sender, err := s.Users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	phone := utils.SanitizeString(in.RecipientPhone)
	if phone == sender.Phone {
		return nil, apperr.ErrSelfTransfer
	}

	recipient, err := s.Users.FindByPhone(ctx, phone)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrRecipientNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.Pins.AuthenticateForAction(ctx, senderID, in.Pin); err != nil {
		return nil, err
	}

	reference := id.Reference("trf")
	note := utils.SanitizeString(in.Note)
	result := &TransferResult{Reference: reference, Recipient: recipient.FullName}

	var notes []notification.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)

		debit, err := repo.Debit(ctx, sender.ID, in.Amount, Transaction{
			Reference:         reference + "-debit",
			Type:              TransactionSend,
			CounterpartyPhone: recipient.Phone,
			CounterpartyName:  recipient.FullName,
			Note:              note,
		})
		if errors.Is(err, apperr.ErrInsufficientBalance) {
			return fmt.Errorf("%w: amount exceeds balance", apperr.ErrInvalidAmount)
		}
		if err != nil {
			return err
		}

		credit, err := repo.Credit(ctx, recipient.ID, in.Amount, Transaction{
			Reference:         reference + "-credit",
			Type:              TransactionReceive,
			CounterpartyPhone: sender.Phone,
			CounterpartyName:  sender.FullName,
			Note:              note,
		})
		if err != nil {
			return err
		}

		result.Debit, result.Credit = debit, credit

		amount := utils.FormatNaira(in.Amount)
		sent, err := s.Notifier.Notify(ctx, tx, sender.ID, "Money Sent", fmt.Sprintf("%s sent to %s", amount, recipient.FullName), notification.ActionTransaction)
		if err != nil {
			return err
		}
		received, err := s.Notifier.Notify(ctx, tx, recipient.ID, "Money Received", fmt.Sprintf("%s from %s", amount, sender.FullName), notification.ActionTransaction)
		if err != nil {
			return err
		}
		notes = append(notes, *sent, *received)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Dispatch(ctx, notes...)

	logger.Info("Transfer completed", logger.Fields{
		logger.ReferenceKey: reference,
		logger.UserIdKey:    sender.ID.String(),
		"recipient_id":      recipient.ID.String(),
		"amount":            in.Amount,
	})

	return result, nil
}

// PayBill debits amount plus the fixed fee and records the bill.
func (s *Service) PayBill(ctx context.Context, userID uuid.UUID, in BillInput) (*BillResult, error) {
	in.Category = utils.SanitizeString(in.Category)
	in.Provider = utils.SanitizeString(in.Provider)
	in.AccountNumber = utils.SanitizeString(in.AccountNumber)

	if err := validateBill(in); err != nil {
		return nil, err
	}

	if _, err := s.Pins.AuthenticateForAction(ctx, userID, in.Pin); err != nil {
		return nil, err
	}

	fee := s.Config.BillFee
	if in.Amount > math.MaxInt64-fee {
		return nil, fmt.Errorf("%w: amount plus fee exceeds balance", apperr.ErrInsufficientBalance)
	}
	total := in.Amount + fee
	reference := id.Reference("bil")
	result := &BillResult{}

	var notes []notification.Notification
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.Repo.WithTx(tx).Debit(ctx, userID, total, Transaction{
			Reference:        reference,
			Type:             TransactionBill,
			Fee:              fee,
			Category:         in.Category,
			CounterpartyName: in.Provider,
		})
		if err != nil {
			return err
		}

		b := &bill.Bill{
			UserID:        userID,
			TransactionID: entry.ID,
			Category:      in.Category,
			Provider:      in.Provider,
			AccountNumber: in.AccountNumber,
			Amount:        in.Amount,
			Fee:           fee,
			Status:        bill.StatusSuccess,
		}
		if err := s.Bills.WithTx(tx).Record(ctx, b); err != nil {
			return fmt.Errorf("record bill: %w", err)
		}

		result.Bill, result.Transaction = b, entry

		n, err := s.Notifier.Notify(ctx, tx, userID, "Bill Payment Successful",
			fmt.Sprintf("%s paid for %s", utils.FormatNaira(in.Amount), in.Category), notification.ActionTransaction)
		if err != nil {
			return err
		}
		notes = append(notes, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Dispatch(ctx, notes...)

	logger.Info("Bill paid", logger.Fields{
		logger.ReferenceKey: reference,
		logger.UserIdKey:    userID.String(),
		"category":          in.Category,
		"provider":          in.Provider,
		"total":             total,
	})

	return result, nil
}

func validateBill(in BillInput) error {
	verr := apperr.NewValidationError()

	if err := utils.ValidateStruct(in); err != nil {
		for field, msg := range utils.FormatValidationError(err, billMessages) {
			verr.Add(field, msg)
		}
	}

	if in.Category != "" {
		category, ok := bill.FindCategory(in.Category)
		switch {
		case !ok:
			verr.Add("category", "Unknown bill category")
		case in.Provider != "" && !category.HasProvider(in.Provider):
			verr.Add("provider", fmt.Sprintf("Provider not available for %s", in.Category))
		}
	}

	return verr.OrNil()
}

func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, in DepositInput) (*Transaction, error) {
	if in.Amount < s.Config.MinTransactionAmount {
		return nil, fmt.Errorf("%w: minimum amount is %s", apperr.ErrInvalidAmount, utils.FormatNaira(s.Config.MinTransactionAmount))
	}

	if _, err := s.Pins.AuthenticateForAction(ctx, userID, in.Pin); err != nil {
		return nil, err
	}

	var (
		entry *Transaction
		notes []notification.Notification
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.Repo.WithTx(tx).Credit(ctx, userID, in.Amount, Transaction{
			Reference: id.Reference("dep"),
			Type:      TransactionDeposit,
		})
		if err != nil {
			return err
		}

		n, err := s.Notifier.Notify(ctx, tx, userID, "Money Added",
			fmt.Sprintf("%s added to wallet", utils.FormatNaira(in.Amount)), notification.ActionTransaction)
		if err != nil {
			return err
		}
		notes = append(notes, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Dispatch(ctx, notes...)

	logger.Info("Deposit completed", logger.Fields{
		logger.ReferenceKey: entry.Reference,
		logger.UserIdKey:    userID.String(),
		"amount":            in.Amount,
	})

	return entry, nil
}

func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.Repo.GetBalance(ctx, userID)
}

// Transaction looks up one of the user's entries by reference. Entries
// belonging to someone else are reported as not found.
func (s *Service) Transaction(ctx context.Context, userID uuid.UUID, reference string) (*Transaction, error) {
	tx, err := s.Repo.GetTransactionByReference(ctx, utils.SanitizeString(reference))
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	return tx, nil
}

// Transactions returns one page of history, newest first, and the total.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, int64, error) {
	txs, err := s.Repo.GetTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.Repo.CountTransactions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}
