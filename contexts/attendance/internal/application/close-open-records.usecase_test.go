package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func TestCloseOpenRecordsJobHandler_H(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	clockIn := application.NewClockInRequestHandler(f.records, f.checker)

	_, err := clockIn.H(ctx, application.ClockInRequest{Clocking: clocking(reportAt(headOffice))})
	assert.NoError(t, err)

	logger := alog.Test(t)
	handler := application.NewCloseOpenRecordsJobHandler(logger, f.records)
	at := time.Now().Add(time.Hour)

	err = handler.H(ctx, application.CloseOpenRecordsJob{At: at})
	assert.NoError(t, err)

	// verify
	last, err := f.records.LatestEffective(ctx, orgID, employeeID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ClockOut, last.Kind)
	assert.True(t, last.Automatic)
	assert.False(t, last.Compliant)
	assert.Equal(t, domain.MethodNone, last.Method)
	assert.Equal(t, domain.LocationCheckFailed, last.ErrorKind)
	logger.Contains("count=1")

	// running again closes nothing
	err = handler.H(ctx, application.CloseOpenRecordsJob{At: at.Add(time.Minute)})
	assert.NoError(t, err)

	c, _ := f.records.Count(ctx)
	assert.Equal(t, 2, c)
}
