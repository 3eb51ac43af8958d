// Package inventory implements the store's business operations: adding,
// updating, deleting, selling and returning stock, expiry listings and name
// search. Every operation loads the full record set, mutates it in memory
// and saves it back, so no state survives between operations.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goodhealth/m/domain"
	"goodhealth/m/internal/store"
)

// Store is the durable medicine collection.
type Store interface {
	Load(ctx context.Context) ([]domain.Medicine, error)
	Save(ctx context.Context, records []domain.Medicine) error
}

// TransactionLog records sale or return events, append-only.
type TransactionLog interface {
	Append(entry domain.TransactionEntry) error
	Entries() ([]domain.TransactionEntry, error)
}

// Service bundles the inventory store and the two transaction logs.
type Service struct {
	store   Store
	sales   TransactionLog
	returns TransactionLog
	logger  *zap.Logger
}

// New constructs a Service.
func New(st Store, sales, returns TransactionLog, logger *zap.Logger) *Service {
	return &Service{store: st, sales: sales, returns: returns, logger: logger}
}

// load reads the full record set. Corrupt storage degrades to an empty set
// with a warning instead of blocking every operation; the next save rewrites
// the file.
func (s *Service) load(ctx context.Context) ([]domain.Medicine, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptStorage) {
			s.logger.Warn("inventory storage unreadable, continuing with an empty set", zap.Error(err))
			return []domain.Medicine{}, nil
		}
		return nil, err
	}
	return records, nil
}

// matchIndex returns the index of the first record whose name contains query,
// case-insensitively, or -1. First match in storage order wins; later matches
// are ignored.
func matchIndex(records []domain.Medicine, query string) int {
	q := strings.ToLower(query)
	for i, m := range records {
		if strings.Contains(strings.ToLower(m.Name), q) {
			return i
		}
	}
	return -1
}

// AddStockInput carries the operator's input for one new stock line.
// AllowExpired is the operator's override after the already-expired warning.
type AddStockInput struct {
	Name              string
	Brand             string
	ManufacturingDate string
	ExpiryDate        string
	Kind              domain.Kind
	UnitPrice         decimal.Decimal
	Quantity          int64
	AllowExpired      bool
}

// AddStock validates the input, assigns the next id and persists the new
// stock line. Nothing is written until every check passes.
func (s *Service) AddStock(ctx context.Context, in AddStockInput) (domain.Medicine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Medicine{}, fmt.Errorf("%w: medicine name cannot be empty", domain.ErrInvalidInput)
	}
	man, err := domain.ParseDate(in.ManufacturingDate)
	if err != nil {
		return domain.Medicine{}, fmt.Errorf("%w: manufacturing date %q", domain.ErrInvalidInput, in.ManufacturingDate)
	}
	exp, err := domain.ParseDate(in.ExpiryDate)
	if err != nil {
		return domain.Medicine{}, fmt.Errorf("%w: expiry date %q", domain.ErrInvalidInput, in.ExpiryDate)
	}
	if !exp.After(man) {
		return domain.Medicine{}, domain.ErrInvalidDateRange
	}
	if !exp.After(domain.Today()) && !in.AllowExpired {
		return domain.Medicine{}, domain.ErrAlreadyExpired
	}
	if !in.Kind.Valid() {
		return domain.Medicine{}, fmt.Errorf("%w: unknown medicine type", domain.ErrInvalidInput)
	}
	if in.UnitPrice.Sign() <= 0 {
		return domain.Medicine{}, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return domain.Medicine{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	records, err := s.load(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	med := domain.NewMedicine(store.NextID(records), name, strings.TrimSpace(in.Brand),
		in.ManufacturingDate, in.ExpiryDate, in.Kind, in.Quantity, in.UnitPrice)
	records = append(records, med)
	if err := s.store.Save(ctx, records); err != nil {
		return domain.Medicine{}, err
	}
	s.logger.Info("stock added", zap.Int64("id", med.ID), zap.String("name", med.Name), zap.Int64("quantity", med.Quantity))
	return med, nil
}

// UpdateStock adds delta to the first matching record's quantity. A negative
// delta reduces stock; a delta that would take the quantity below zero leaves
// the record untouched.
func (s *Service) UpdateStock(ctx context.Context, nameQuery string, delta int64) (domain.Medicine, error) {
	records, err := s.load(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	i := matchIndex(records, nameQuery)
	if i < 0 {
		return domain.Medicine{}, domain.ErrNotFound
	}
	med := &records[i]
	newQuantity := med.Quantity + delta
	if newQuantity < 0 {
		return domain.Medicine{}, fmt.Errorf("%w: current stock is %d", domain.ErrNegativeStock, med.Quantity)
	}
	med.SetQuantity(newQuantity)
	if err := s.store.Save(ctx, records); err != nil {
		return domain.Medicine{}, err
	}
	s.logger.Info("stock updated", zap.Int64("id", med.ID), zap.String("name", med.Name), zap.Int64("quantity", med.Quantity))
	return *med, nil
}

// DeleteMedicine removes the first matching record. The operator interface
// confirms before calling; the id is never reused afterwards.
func (s *Service) DeleteMedicine(ctx context.Context, nameQuery string) (domain.Medicine, error) {
	records, err := s.load(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	i := matchIndex(records, nameQuery)
	if i < 0 {
		return domain.Medicine{}, domain.ErrNotFound
	}
	deleted := records[i]
	records = append(records[:i], records[i+1:]...)
	if err := s.store.Save(ctx, records); err != nil {
		return domain.Medicine{}, err
	}
	s.logger.Info("medicine deleted", zap.Int64("id", deleted.ID), zap.String("name", deleted.Name))
	return deleted, nil
}

// Receipt is the outcome of a sale or return: the transaction itself plus the
// post-mutation stock line.
type Receipt struct {
	Medicine domain.Medicine
	Quantity int64
	Amount   decimal.Decimal
}

// SellMedicine sells quantity units of the first matching record: the sale is
// appended to the sales log, then the stock is decremented and saved. The two
// writes are sequential, not transactional; when the log append lands but the
// store save fails the returned error says so and nothing reconciles them.
func (s *Service) SellMedicine(ctx context.Context, nameQuery string, quantity int64) (Receipt, error) {
	return s.transact(ctx, s.sales, "sale", nameQuery, quantity)
}

// ReturnMedicine removes quantity units from the shelf for a supplier return
// and appends the event to the return log. The reason is recorded in the
// operational log only; the entry format is fixed.
func (s *Service) ReturnMedicine(ctx context.Context, nameQuery string, quantity int64, reason string) (Receipt, error) {
	if reason != "" {
		s.logger.Info("return reason", zap.String("name", nameQuery), zap.String("reason", reason))
	}
	return s.transact(ctx, s.returns, "return", nameQuery, quantity)
}

func (s *Service) transact(ctx context.Context, log TransactionLog, kind, nameQuery string, quantity int64) (Receipt, error) {
	if quantity <= 0 {
		return Receipt{}, domain.ErrInvalidQuantity
	}
	records, err := s.load(ctx)
	if err != nil {
		return Receipt{}, err
	}
	i := matchIndex(records, nameQuery)
	if i < 0 {
		return Receipt{}, domain.ErrNotFound
	}
	med := &records[i]
	if quantity > med.Quantity {
		return Receipt{}, fmt.Errorf("%w: current stock is %d %ss", domain.ErrInsufficientStock, med.Quantity, med.Kind.Unit())
	}

	amount := med.UnitPrice.Mul(decimal.NewFromInt(quantity))
	entry := domain.TransactionEntry{
		Date:     domain.Today().Format("2006-01-02"),
		Medicine: med.Name,
		Quantity: quantity,
		Amount:   amount,
	}
	if err := log.Append(entry); err != nil {
		return Receipt{}, err
	}

	med.SetQuantity(med.Quantity - quantity)
	if err := s.store.Save(ctx, records); err != nil {
		// The transaction log already holds the entry; the store does not.
		s.logger.Error("transaction logged but stock save failed, files diverge",
			zap.String("kind", kind), zap.String("name", med.Name), zap.Error(err))
		return Receipt{}, fmt.Errorf("%s recorded in transaction log but stock update failed: %w", kind, err)
	}
	s.logger.Info("transaction completed", zap.String("kind", kind),
		zap.String("name", med.Name), zap.Int64("quantity", quantity), zap.String("amount", amount.String()))
	return Receipt{Medicine: *med, Quantity: quantity, Amount: amount}, nil
}

// ExpiryItem is one stock line expiring inside the window.
type ExpiryItem struct {
	domain.Medicine
	DaysLeft int64
	Label    string
}

// ExpiryList returns every record whose expiry date falls within windowDays
// from today, already expired stock included. A record whose stored date does
// not parse is skipped with a warning rather than failing the listing.
func (s *Service) ExpiryList(ctx context.Context, windowDays int) ([]ExpiryItem, []string, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	today := domain.Today()
	threshold := today.AddDate(0, 0, windowDays)
	items := []ExpiryItem{}
	warnings := []string{}
	for _, m := range records {
		exp, err := domain.ParseDate(m.ExpiryDate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("medicine %d (%s): bad expiry date %q", m.ID, m.Name, m.ExpiryDate))
			continue
		}
		if exp.After(threshold) {
			continue
		}
		daysLeft := int64(exp.Sub(today).Hours() / 24)
		label := fmt.Sprintf("%d days", daysLeft)
		if daysLeft < 0 {
			label = "EXPIRED"
		}
		items = append(items, ExpiryItem{Medicine: m, DaysLeft: daysLeft, Label: label})
	}
	return items, warnings, nil
}

// SearchMedicine returns every record whose name contains query,
// case-insensitively. No matches is an empty result, not an error.
func (s *Service) SearchMedicine(ctx context.Context, query string) ([]domain.Medicine, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matches := []domain.Medicine{}
	for _, m := range records {
		if strings.Contains(strings.ToLower(m.Name), q) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// FindMedicine returns the first matching record, the one a mutating
// operation with the same query would act on. The menu shows it to the
// operator before asking for confirmation.
func (s *Service) FindMedicine(ctx context.Context, query string) (domain.Medicine, error) {
	records, err := s.load(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	i := matchIndex(records, query)
	if i < 0 {
		return domain.Medicine{}, domain.ErrNotFound
	}
	return records[i], nil
}

// ViewAll returns every stock line.
func (s *Service) ViewAll(ctx context.Context) ([]domain.Medicine, error) {
	return s.load(ctx)
}

// SalesReport lists every logged sale with the grand total.
func (s *Service) SalesReport() ([]domain.TransactionEntry, decimal.Decimal, error) {
	return report(s.sales)
}

// ReturnsReport lists every logged return with the grand total.
func (s *Service) ReturnsReport() ([]domain.TransactionEntry, decimal.Decimal, error) {
	return report(s.returns)
}

func report(log TransactionLog) ([]domain.TransactionEntry, decimal.Decimal, error) {
	entries, err := log.Entries()
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return entries, total, nil
}
