package http

import (
	"bytes"
	"net/http"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LedgerHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

func ledgerRequestFromQuery(r *http.Request) ledger.LedgerRequest {
	query := r.URL.Query()
	return ledger.LedgerRequest{
		EmployeeID: query.Get("employee_id"),
		Type:       ledger.Type(query.Get("type")),
		Start:      query.Get("start"),
		End:        query.Get("end"),
	}
}

func (h *ledgerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerService.GetLedger(r.Context(), ledgerRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := h.ledgerService.ExportLedger(r.Context(), ledgerRequestFromQuery(r), &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, xlsxContentType, filename, buf.Bytes())
}
