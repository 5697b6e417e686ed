package repository

import (
	"time"

	"github.com/google/uuid"
)

// Named invoice specifications. Each is built once per query and handed to
// the invoice repository; none of them executes anything on its own.

// ActiveInvoices lists non-archived invoices, newest issue date first, with
// the aggregates a listing screen needs.
func ActiveInvoices() *Specification {
	return NewSpecification(Eq("is_active", true)).
		Include("Client", "CostCenter", "InvoiceStatus").
		OrderByDescending("issue_date")
}

// OverdueInvoices matches unpaid invoices due before the reference date,
// earliest due date first.
func OverdueInvoices(referenceDate time.Time) *Specification {
	return NewSpecification(And(
		Lt("due_date", referenceDate),
		IsNull("paid_date"),
	)).
		Include("Client", "CostCenter", "InvoiceStatus").
		OrderBy("due_date")
}

// InvoicesByClient lists one client's invoices, newest issue date first.
func InvoicesByClient(clientID uuid.UUID) *Specification {
	return NewSpecification(Eq("client_id", clientID)).
		Include("CostCenter", "InvoiceStatus").
		OrderByDescending("issue_date")
}

// InvoicesByDateRange matches invoices issued inside [start, end].
func InvoicesByDateRange(start, end time.Time) *Specification {
	return NewSpecification(And(
		Gte("issue_date", start),
		Lte("issue_date", end),
	)).
		Include("Client", "CostCenter", "InvoiceStatus").
		OrderByDescending("issue_date")
}

// InvoiceWithFullDetails loads one invoice with every related aggregate a
// detail screen shows, including the cost center's contacts and the status
// pair of each history entry.
func InvoiceWithFullDetails(invoiceID uuid.UUID) *Specification {
	return NewSpecification(Eq("id", invoiceID)).
		Include(
			"Client",
			"CostCenter",
			"CostCenter.ResponsiblePersons",
			"InvoiceStatus",
			"InvoiceHistories.FromStatus",
			"InvoiceHistories.ToStatus",
		)
}

// PaginatedInvoices pages through invoices optionally narrowed to a client
// and/or a status.
func PaginatedInvoices(pageNumber, pageSize int, clientID, statusID *uuid.UUID) *Specification {
	var filters []Criterion
	if clientID != nil {
		filters = append(filters, Eq("client_id", *clientID))
	}
	if statusID != nil {
		filters = append(filters, Eq("invoice_status_id", *statusID))
	}

	var criteria Criterion
	if len(filters) > 0 {
		criteria = And(filters...)
	}

	return NewSpecification(criteria).
		Include("Client", "CostCenter", "InvoiceStatus").
		OrderByDescending("issue_date").
		Paginate((pageNumber-1)*pageSize, pageSize)
}
