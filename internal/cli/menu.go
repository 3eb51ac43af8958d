// Package cli is the operator interface: a text menu that collects typed
// input, confirms destructive actions and renders the inventory operations'
// results as fixed-width tables.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"goodhealth/m/domain"
	"goodhealth/m/internal/inventory"
)

// Menu drives the interactive session.
type Menu struct {
	svc        *inventory.Service
	in         *bufio.Scanner
	out        io.Writer
	expiryDays int
	eof        bool
}

// New constructs a Menu reading operator input from in and rendering to out.
func New(svc *inventory.Service, in io.Reader, out io.Writer, expiryDays int) *Menu {
	return &Menu{svc: svc, in: bufio.NewScanner(in), out: out, expiryDays: expiryDays}
}

// Run loops until the operator exits or input runs out. Operation errors are
// rendered and control returns to the menu; they never terminate the process.
// End of input mid-prompt aborts the current operation and ends the session.
func (m *Menu) Run(ctx context.Context) {
	for !m.eof {
		m.printMenu()
		choice := m.prompt("ENTER YOUR CHOICE: ")
		if m.eof || choice == "0" {
			break
		}
		switch choice {
		case "1":
			m.addStock(ctx)
		case "2":
			m.updateStock(ctx)
		case "3":
			m.deleteMedicine(ctx)
		case "4":
			m.sellMedicine(ctx)
		case "5":
			m.returnMedicine(ctx)
		case "6":
			m.expiryList(ctx)
		case "7":
			m.searchMedicine(ctx)
		case "8":
			m.viewAll(ctx)
		case "9":
			m.transactionReport("SALES REPORT", m.svc.SalesReport)
		case "10":
			m.transactionReport("RETURNS REPORT", m.svc.ReturnsReport)
		default:
			fmt.Fprintln(m.out, "\nINVALID CHOICE. PLEASE SELECT 0-10")
		}
	}
	fmt.Fprintln(m.out, "\nTHANK YOU FOR USING THE SYSTEM")
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat("=", 70))
	fmt.Fprintln(m.out, "  GOOD HEALTH FAMILY MEDICAL STORE - INVENTORY MANAGEMENT SYSTEM")
	fmt.Fprintln(m.out, strings.Repeat("=", 70))
	fmt.Fprintln(m.out, ` 1. ADD STOCK
 2. UPDATE STOCK
 3. DELETE MEDICINE
 4. SELL MEDICINE
 5. RETURN MEDICINE
 6. UPCOMING EXPIRY MEDICINE LIST
 7. SEARCH MEDICINE
 8. VIEW ALL MEDICINES
 9. SALES REPORT
10. RETURNS REPORT
 0. EXIT`)
	fmt.Fprintln(m.out, strings.Repeat("=", 70))
}

func (m *Menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		m.eof = true
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

func (m *Menu) confirm(label string) bool {
	return strings.EqualFold(m.prompt(label+" (y/n): "), "y")
}

func (m *Menu) promptDate(label string) (string, bool) {
	for {
		value := m.prompt(label + " (yyyy, mm, dd): ")
		if m.eof {
			return "", false
		}
		if _, err := domain.ParseDate(value); err == nil {
			return value, true
		}
		fmt.Fprintln(m.out, "INVALID DATE FORMAT")
	}
}

func (m *Menu) promptInt(label string) (int64, bool) {
	value, err := strconv.ParseInt(m.prompt(label), 10, 64)
	if err != nil {
		if !m.eof {
			fmt.Fprintln(m.out, "INVALID NUMERICAL INPUT")
		}
		return 0, false
	}
	return value, true
}

func (m *Menu) addStock(ctx context.Context) {
	in := inventory.AddStockInput{}
	in.Name = m.prompt("Enter Medicine Name: ")
	if in.Name == "" {
		fmt.Fprintln(m.out, "MEDICINE NAME CANNOT BE EMPTY")
		return
	}
	in.Brand = m.prompt("Enter Medicine Brand Name: ")
	var ok bool
	if in.ManufacturingDate, ok = m.promptDate("Enter Manufacturing Date"); !ok {
		return
	}
	if in.ExpiryDate, ok = m.promptDate("Enter Expiry Date"); !ok {
		return
	}

	kind, ok := m.promptInt("Enter type of medicine (0-Syrup/1-Tablet): ")
	if !ok {
		return
	}
	in.Kind = domain.Kind(kind)
	if !in.Kind.Valid() {
		fmt.Fprintln(m.out, "INVALID TYPE. MUST BE 0 OR 1")
		return
	}

	price, err := decimal.NewFromString(m.prompt(fmt.Sprintf("Enter Price per %s: ", in.Kind.Unit())))
	if err != nil {
		fmt.Fprintln(m.out, "INVALID NUMERICAL INPUT")
		return
	}
	in.UnitPrice = price
	if in.Quantity, ok = m.promptInt(fmt.Sprintf("Enter number of %ss: ", in.Kind.Unit())); !ok {
		return
	}

	med, err := m.svc.AddStock(ctx, in)
	if errors.Is(err, domain.ErrAlreadyExpired) {
		fmt.Fprintln(m.out, "WARNING: THIS MEDICINE IS ALREADY EXPIRED")
		if !m.confirm("Do you still want to add it?") {
			return
		}
		in.AllowExpired = true
		med, err = m.svc.AddStock(ctx, in)
	}
	if err != nil {
		m.renderError(err)
		return
	}
	fmt.Fprintf(m.out, "\nMEDICINE ADDED SUCCESSFULLY (ID %d, TOTAL AMOUNT %s)\n", med.ID, med.Amount.StringFixed(2))
}

func (m *Menu) updateStock(ctx context.Context) {
	query := m.prompt("ENTER MEDICINE NAME: ")
	if query == "" {
		fmt.Fprintln(m.out, "PLEASE ENTER A MEDICINE NAME")
		return
	}
	med, err := m.svc.FindMedicine(ctx, query)
	if err != nil {
		m.renderError(err)
		return
	}
	m.renderTable([]domain.Medicine{med})

	delta, ok := m.promptInt("Enter quantity to add (negative to reduce): ")
	if !ok {
		return
	}
	updated, err := m.svc.UpdateStock(ctx, query, delta)
	if err != nil {
		m.renderError(err)
		return
	}
	fmt.Fprintf(m.out, "\nSTOCK UPDATED SUCCESSFULLY (New Quantity: %d, New Amount: %s)\n",
		updated.Quantity, updated.Amount.StringFixed(2))
}

func (m *Menu) deleteMedicine(ctx context.Context) {
	query := m.prompt("ENTER MEDICINE NAME: ")
	if query == "" {
		fmt.Fprintln(m.out, "PLEASE ENTER A MEDICINE NAME")
		return
	}
	med, err := m.svc.FindMedicine(ctx, query)
	if err != nil {
		m.renderError(err)
		return
	}
	m.renderTable([]domain.Medicine{med})
	if !m.confirm(fmt.Sprintf("Are you sure you want to delete %q?", med.Name)) {
		fmt.Fprintln(m.out, "DELETION CANCELLED")
		return
	}
	if _, err := m.svc.DeleteMedicine(ctx, query); err != nil {
		m.renderError(err)
		return
	}
	fmt.Fprintln(m.out, "MEDICINE DELETED SUCCESSFULLY")
}

func (m *Menu) sellMedicine(ctx context.Context) {
	m.transactStock(ctx, "sell", func(query string, qty int64) (inventory.Receipt, error) {
		return m.svc.SellMedicine(ctx, query, qty)
	})
}

func (m *Menu) returnMedicine(ctx context.Context) {
	m.transactStock(ctx, "return", func(query string, qty int64) (inventory.Receipt, error) {
		reason := m.prompt("Reason for return (expiry/damage/other): ")
		return m.svc.ReturnMedicine(ctx, query, qty, reason)
	})
}

func (m *Menu) transactStock(ctx context.Context, verb string, run func(string, int64) (inventory.Receipt, error)) {
	query := m.prompt("ENTER MEDICINE NAME: ")
	if query == "" {
		fmt.Fprintln(m.out, "PLEASE ENTER A MEDICINE NAME")
		return
	}
	med, err := m.svc.FindMedicine(ctx, query)
	if err != nil {
		m.renderError(err)
		return
	}
	unit := med.Kind.Unit()
	fmt.Fprintf(m.out, "\nMedicine: %s\nAvailable Stock: %d %ss\nPrice per %s: %s\n",
		med.Name, med.Quantity, unit, unit, med.UnitPrice.StringFixed(2))

	qty, ok := m.promptInt(fmt.Sprintf("Enter number of %ss to %s: ", unit, verb))
	if !ok {
		return
	}
	amount := med.UnitPrice.Mul(decimal.NewFromInt(qty))
	fmt.Fprintf(m.out, "\nTOTAL AMOUNT: %s\n", amount.StringFixed(2))
	if !m.confirm(fmt.Sprintf("Confirm %s?", verb)) {
		fmt.Fprintf(m.out, "%s CANCELLED\n", strings.ToUpper(verb))
		return
	}

	receipt, err := run(query, qty)
	if err != nil {
		m.renderError(err)
		return
	}
	fmt.Fprintf(m.out, "\nDONE. Remaining Stock: %d %ss\n", receipt.Medicine.Quantity, unit)
}

func (m *Menu) expiryList(ctx context.Context) {
	items, warnings, err := m.svc.ExpiryList(ctx, m.expiryDays)
	if err != nil {
		m.renderError(err)
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(m.out, "SKIPPED: %s\n", w)
	}
	if len(items) == 0 {
		fmt.Fprintf(m.out, "\nNO MEDICINES EXPIRING WITHIN %d DAYS\n", m.expiryDays)
		return
	}
	fmt.Fprintf(m.out, "\nMedicines expiring within %d days:\n", m.expiryDays)
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MED ID\tMEDICINE NAME\tBRAND\tEXPIRY DATE\tDAYS LEFT\tQTY\tTYPE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Name, item.Brand, item.ExpiryDate, item.Label, item.Quantity, item.Kind)
	}
	w.Flush()
}

func (m *Menu) searchMedicine(ctx context.Context) {
	query := m.prompt("ENTER MEDICINE NAME: ")
	if query == "" {
		fmt.Fprintln(m.out, "PLEASE ENTER A MEDICINE NAME")
		return
	}
	matches, err := m.svc.SearchMedicine(ctx, query)
	if err != nil {
		m.renderError(err)
		return
	}
	if len(matches) == 0 {
		fmt.Fprintln(m.out, "MEDICINE NOT FOUND")
		return
	}
	m.renderTable(matches)
}

func (m *Menu) viewAll(ctx context.Context) {
	records, err := m.svc.ViewAll(ctx)
	if err != nil {
		m.renderError(err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(m.out, "NO MEDICINES IN DATABASE")
		return
	}
	m.renderTable(records)
	fmt.Fprintf(m.out, "\nTotal Medicines: %d\n", len(records))
}

func (m *Menu) transactionReport(title string, fetch func() ([]domain.TransactionEntry, decimal.Decimal, error)) {
	entries, total, err := fetch()
	if err != nil {
		m.renderError(err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(m.out, "NO TRANSACTIONS RECORDED")
		return
	}
	fmt.Fprintf(m.out, "\n%s\n", title)
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tMEDICINE NAME\tQTY\tAMOUNT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Date, e.Medicine, e.Quantity, e.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "\tTOTAL\t\t%s\n", total.StringFixed(2))
	w.Flush()
}

func (m *Menu) renderTable(records []domain.Medicine) {
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MED ID\tMEDICINE NAME\tBRAND\tEXPIRY DATE\tQTY\tTYPE\tPRICE\tAMOUNT")
	for _, med := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			med.ID, med.Name, med.Brand, med.ExpiryDate, med.Quantity, med.Kind,
			med.UnitPrice.StringFixed(2), med.Amount.StringFixed(2))
	}
	w.Flush()
}

func (m *Menu) renderError(err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintln(m.out, "MEDICINE NOT FOUND")
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNegativeStock),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidInput):
		fmt.Fprintf(m.out, "%s\n", strings.ToUpper(err.Error()))
	default:
		fmt.Fprintf(m.out, "ERROR: %v\n", err)
	}
}
