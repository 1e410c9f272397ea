package syncer_test

import (
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/imcbsglobal/rrc-sync/apiclient"
	"github.com/imcbsglobal/rrc-sync/rowconv"
	"github.com/imcbsglobal/rrc-sync/syncer"
	"github.com/imcbsglobal/rrc-sync/tablespec"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows map[string][]rowconv.Row
	errs map[string]error
}

func (s *fakeSource) ExtractTable(
	ctx context.Context, table tablespec.Table,
) ([]rowconv.Row, error) {
	if err, ok := s.errs[table.SourceName]; ok {
		return nil, err
	}
	return s.rows[table.SourceName], nil
}

type fakeSyncer struct {
	outcomes map[string]apiclient.Outcome
	synced   []string
}

func (s *fakeSyncer) SyncTable(
	ctx context.Context, targetName string, rows []rowconv.Row,
) apiclient.Outcome {
	s.synced = append(s.synced, targetName)
	if outcome, ok := s.outcomes[targetName]; ok {
		return outcome
	}
	return apiclient.Outcome{
		Table:            targetName,
		Success:          true,
		RecordsProcessed: len(rows),
		Attempts:         1,
	}
}

func testTables(names ...string) []tablespec.Table {
	ret := make([]tablespec.Table, 0, len(names))
	for _, name := range names {
		ret = append(ret, tablespec.Table{
			SourceName: name,
			TargetName: name,
			Query:      "SELECT 1",
		})
	}
	return ret
}

func someRows(n int) []rowconv.Row {
	ret := make([]rowconv.Row, 0, n)
	for i := 0; i < n; i++ {
		r := rowconv.NewRow(1)
		r.Append("code", "C001")
		ret = append(ret, r)
	}
	return ret
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestRunAllTablesSucceed(t *testing.T) {
	source := &fakeSource{rows: map[string][]rowconv.Row{
		"rrc_clients": someRows(3),
		"rrc_product": someRows(2),
	}}
	client := &fakeSyncer{}

	summary := syncer.Run(
		context.Background(), testLogger(), source, client,
		testTables("rrc_clients", "rrc_product"),
	)
	require.True(t, summary.Ok())
	require.Equal(t, 2, summary.TablesTotal)
	require.Equal(t, 2, summary.TablesSucceeded)
	require.Equal(t, 0, summary.TablesFailed)
	require.Equal(t, 5, summary.TotalRecordsSynced)
	require.Equal(t, []string{"rrc_clients", "rrc_product"}, client.synced)
}

func TestRunExtractionFailureDoesNotStopRun(t *testing.T) {
	source := &fakeSource{
		rows: map[string][]rowconv.Row{"rrc_product": someRows(2)},
		errs: map[string]error{"rrc_clients": errors.Newf("query failed")},
	}
	client := &fakeSyncer{}

	summary := syncer.Run(
		context.Background(), testLogger(), source, client,
		testTables("rrc_clients", "rrc_product"),
	)
	require.False(t, summary.Ok())
	require.Equal(t, 1, summary.TablesSucceeded)
	require.Equal(t, 1, summary.TablesFailed)
	require.Equal(t, 2, summary.TotalRecordsSynced)

	// The failing table is never delivered; the next table still is.
	require.Equal(t, []string{"rrc_product"}, client.synced)

	require.Len(t, summary.Outcomes, 2)
	require.False(t, summary.Outcomes[0].Success)
	require.Contains(t, summary.Outcomes[0].ErrorDetail, "query failed")
	require.Zero(t, summary.Outcomes[0].Attempts)
	require.True(t, summary.Outcomes[1].Success)
}

func TestRunDeliveryFailureDoesNotStopRun(t *testing.T) {
	source := &fakeSource{rows: map[string][]rowconv.Row{
		"rrc_clients": someRows(3),
		"rrc_product": someRows(2),
	}}
	client := &fakeSyncer{outcomes: map[string]apiclient.Outcome{
		"rrc_clients": {
			Table:       "rrc_clients",
			Attempts:    3,
			ErrorDetail: "HTTP 500",
		},
	}}

	summary := syncer.Run(
		context.Background(), testLogger(), source, client,
		testTables("rrc_clients", "rrc_product"),
	)
	require.False(t, summary.Ok())
	require.Equal(t, summary.TablesTotal, summary.TablesSucceeded+summary.TablesFailed)
	require.Equal(t, 2, summary.TotalRecordsSynced)
	require.Equal(t, []string{"rrc_clients", "rrc_product"}, client.synced)
}

func TestRunEmptyTableList(t *testing.T) {
	summary := syncer.Run(
		context.Background(), testLogger(), &fakeSource{}, &fakeSyncer{}, nil,
	)
	require.True(t, summary.Ok())
	require.Zero(t, summary.TablesTotal)
	require.Empty(t, summary.Outcomes)
}
