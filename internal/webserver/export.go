package webserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

const exportTimeLayout = "2006-01-02 15:04:05"

type transactionExportRow struct {
	TrdID    int64  `csv:"trd_id"`
	RefNo    string `csv:"ref_no"`
	Datetime string `csv:"datetime"`
	EmpCd    string `csv:"emp_cd"`
	StoreCd  string `csv:"store_cd"`
	PosNo    string `csv:"pos_no"`
	TotalAmt int    `csv:"total_amt"`
}

// exportTransactions streams recent transactions as CSV for back-office use.
func (s *WebServer) exportTransactions(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 10000 {
			limit = n
		}
	}

	rows, err := s.checkout.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	out := make([]*transactionExportRow, 0, len(rows))
	for _, trd := range rows {
		out = append(out, &transactionExportRow{
			TrdID:    trd.ID,
			RefNo:    trd.RefNo,
			Datetime: trd.Datetime.Format(exportTimeLayout),
			EmpCd:    trd.EmpCd,
			StoreCd:  trd.StoreCd,
			PosNo:    trd.PosNo,
			TotalAmt: trd.TotalAmt,
		})
	}

	filename := "transactions-" + time.Now().Format("20060102") + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&out, c.Response())
}
