package worker

// invoice_worker.go
// Processes invoice generation jobs from QueueInvoice: renders the PDF for a
// completed sale with retry, records the pipeline state on the Invoice row,
// and optionally enqueues an email job with the PDF attached.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/infra"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxInvoiceRetries is the attempt cap across worker and retry cron; invoices
// past it go to "error" and the DLQ.
const MaxInvoiceRetries = 5

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	SaleID        string  `json:"sale_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// InvoiceWorker turns completed sales into issued PDF invoices.
type InvoiceWorker struct {
	invoiceRepo    repository.InvoiceRepository
	saleRepo       repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	pharmacyName   string
}

func NewInvoiceWorker(
	invoiceRepo repository.InvoiceRepository,
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	pharmacyName string,
) *InvoiceWorker {
	return &InvoiceWorker{
		invoiceRepo:    invoiceRepo,
		saleRepo:       saleRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		pharmacyName:   pharmacyName,
	}
}

// Process handles a single invoice job:
//  1. Parse InvoiceJobPayload from the job envelope
//  2. Fetch the sale (with items and customer) from DB
//  3. Find the pending Invoice row created at sale time
//  4. Generate the PDF with exponential backoff (max 3 in-process attempts)
//  5. On success mark issued and enqueue the email; on failure schedule the
//     retry cron via next_retry_at
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("invoice_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: sale not found")
		return
	}

	inv, err := w.invoiceRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: invoice row not found")
		return
	}
	if inv.Status == "issued" {
		return // duplicate delivery, nothing to do
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateInvoicePDF(sale, w.pharmacyName, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("invoice_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if genErr != nil {
		// Leave pending and hand over to the retry cron.
		inv.RetryCount++
		errMsg := genErr.Error()
		inv.LastError = &errMsg
		next := time.Now().Add(computeRetryBackoff(inv.RetryCount))
		inv.NextRetryAt = &next
		_ = w.invoiceRepo.Update(ctx, inv)
		log.Error().
			Err(genErr).
			Str("sale_id", payload.SaleID).
			Time("next_retry_at", next).
			Msg("invoice_worker: PDF generation failed, scheduled retry")
		return
	}

	inv.Status = "issued"
	inv.PDFPath = &pdfPath
	inv.NextRetryAt = nil
	inv.LastError = nil
	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: failed to update invoice")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("invoice_worker: invoice issued")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.CustomerEmail,
			Subject: fmt.Sprintf("%s — Invoice #%d", w.pharmacyName, sale.InvoiceNo),
			Body:    fmt.Sprintf("Please find your invoice attached.\nTotal: %s", sale.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.CustomerEmail).Msg("invoice_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff spaces cron-driven retries: 1m, 2m, 4m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	d := time.Minute << uint(retryCount-1)
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}
