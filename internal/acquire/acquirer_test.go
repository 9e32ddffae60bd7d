package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/housewrangle/internal/table"
)

type fakeQuerier struct {
	calls int
	t     *table.Table
	err   error
}

func (f *fakeQuerier) Query(ctx context.Context, q string, args ...any) (*table.Table, error) {
	f.calls++
	return f.t, f.err
}

func sampleRaw(t *testing.T) *table.Table {
	t.Helper()
	tb := table.New("bathroom_cnt", "has_pool", "transaction_date")
	require.NoError(t, tb.Append("0", table.Num(2), table.Null(), table.Str("2017-06-01")))
	require.NoError(t, tb.Append("1", table.Num(1.5), table.Num(1), table.At(time.Date(2017, 7, 1, 0, 0, 0, 0, time.UTC))))
	return tb
}

func TestCSVRoundTripKeepsKeysAndNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "zillow.csv")
	require.NoError(t, WriteCSV(path, sampleRaw(t)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ",bathroom_cnt,has_pool,transaction_date", lines[0])
	assert.Equal(t, "0,2,,2017-06-01", lines[1])
	assert.Equal(t, "1,1.5,1,2017-07-01", lines[2])

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []table.Key{"0", "1"}, got.Keys())
	assert.True(t, got.Value(0, "has_pool").IsNull())
	assert.True(t, got.Value(1, "bathroom_cnt").Equal(table.Num(1.5)))
	assert.Equal(t, table.KindText, got.Value(1, "transaction_date").Kind())
}

func TestDecodeCSVWithoutKeyColumn(t *testing.T) {
	got, err := DecodeCSV(strings.NewReader("a,b\n1,x\n,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Columns())
	assert.Equal(t, []table.Key{"0", "1"}, got.Keys())
	assert.True(t, got.Value(1, "a").IsNull())
}

func TestDecodeCSVTreatsNonFiniteAsNull(t *testing.T) {
	got, err := DecodeCSV(strings.NewReader(",sqft_calculated\na,1500\nb,inf\nc,-Infinity\nd,NaN\n"))
	require.NoError(t, err)
	assert.True(t, got.Value(0, "sqft_calculated").Equal(table.Num(1500)))
	for i := 1; i < got.Len(); i++ {
		assert.Truef(t, got.Value(i, "sqft_calculated").IsNull(), "row %s", got.Row(i).Key)
	}
}

func TestDecodeCSVRejectsRaggedRows(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(",a,b\n0,1\n"))
	assert.Error(t, err)
}

func TestAcquirerUsesCacheAfterFirstFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zillow.csv")
	q := &fakeQuerier{t: sampleRaw(t)}
	a := NewAcquirer(q, path, nil)

	first, err := a.Load(context.Background(), ZillowQuery)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())
	assert.FileExists(t, path)

	second, err := a.Load(context.Background(), ZillowQuery)
	require.NoError(t, err)
	assert.Equal(t, 1, q.calls)
	assert.Equal(t, first.Keys(), second.Keys())

	_, err = a.Refresh(context.Background(), ZillowQuery)
	require.NoError(t, err)
	assert.Equal(t, 2, q.calls)
}

func TestAcquirerErrors(t *testing.T) {
	_, err := NewAcquirer(nil, filepath.Join(t.TempDir(), "missing.csv"), nil).Load(context.Background(), ZillowQuery)
	assert.ErrorIs(t, err, ErrNoSource)

	boom := errors.New("boom")
	_, err = NewAcquirer(&fakeQuerier{err: boom}, "", nil).Load(context.Background(), ZillowQuery)
	assert.ErrorIs(t, err, boom)
}
