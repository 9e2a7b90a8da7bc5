package mapper_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expression-mapper/mapper"
	"expression-mapper/query"
)

type OrderRow struct {
	ID         int64  `db:"id"`
	Customer   string `db:"customer_name"`
	TotalCents int64  `db:"total_cents"`
}

type OrderView struct {
	ID         int64           `db:"order_id"`
	Customer   string          `db:"customer"`
	TotalCents decimal.Decimal `db:"total"`
}

type OrderSummary struct {
	ID       int64
	Customer string
}

func TestSelect_Table(t *testing.T) {
	orders, err := query.From[OrderRow]("orders")
	require.NoError(t, err)

	views, err := mapper.Select[OrderRow, OrderView](orders, mapper.WithFaultIsolation())
	require.NoError(t, err)
	assert.Equal(t, typeOf[OrderView](), views.ElemType())

	stmt, err := views.(*query.Table).SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT src.id AS order_id, src.customer_name AS customer, CAST(src.total_cents AS DECIMAL) AS total FROM orders AS src",
		stmt.SQL)
	assert.Empty(t, stmt.Args)

	summaries, err := mapper.Select[OrderView, OrderSummary](views)
	require.NoError(t, err)

	stmt, err = summaries.(*query.Table).SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT src.id AS ID, src.customer_name AS Customer FROM orders AS src", stmt.SQL)

	_, err = mapper.Select[OrderRow, OrderSummary](views)
	require.ErrorIs(t, err, mapper.ErrTypeMismatch)
}

func TestSelect_Memory(t *testing.T) {
	people := query.FromSlice([]Person{{Id: 1, Name: "Ann", Age: 30}, {Id: 2, Name: "Bob", Age: 40}})

	refs, err := mapper.Select[Person, PersonRef](people)
	require.NoError(t, err)

	got, err := query.Collect[PersonRef](refs)
	require.NoError(t, err)
	assert.Equal(t, []PersonRef{{Id: 1, Name: "Ann"}, {Id: 2, Name: "Bob"}}, got)
}
