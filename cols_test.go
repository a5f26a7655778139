package sqli

import (
	"database/sql"
	"testing"
	"time"
)

type colsAddress struct {
	City   string `db:"city"`
	Street string `db:"street"`
}

type colsUser struct {
	Internal
	Id        int64          `db:"id"`
	Name      string         `db:"name"`
	Address   colsAddress    `db:"address"`
	Billing   *colsAddress   `db:"billing"`
	CreatedAt time.Time      `db:"created_at"`
	Note      sql.NullString `db:"note"`
	Skipped   string         `db:"-"`
	Untagged  string
}

func TestCols(t *testing.T) {
	const exp = `"two", "three", "id", "name", ` +
		`("address")."city" as "address.city", ("address")."street" as "address.street", ` +
		`("billing")."city" as "billing.city", ("billing")."street" as "billing.street", ` +
		`"created_at", "note"`

	eq(t, exp, Cols(colsUser{}))
	eq(t, exp, Cols((*colsUser)(nil)))
	eq(t, exp, Cols([]colsUser(nil)))
	eq(t, exp, Cols(&[]*colsUser{}))
}

func TestCols_nested_path(t *testing.T) {
	type Inner struct {
		Val string `db:"val"`
	}
	type Middle struct {
		Inner Inner `db:"inner"`
	}
	type Outer struct {
		Middle Middle `db:"middle"`
	}

	eq(t, `("middle")."inner"."val" as "middle.inner.val"`, Cols(Outer{}))
}

func TestCols_invalid(t *testing.T) {
	panics(t, ErrInvalidInput, func() { Cols(nil) })
	panics(t, ErrInvalidInput, func() { Cols(10) })
	panics(t, ErrInvalidInput, func() { Cols([]string{}) })
}

func TestCols_raw(t *testing.T) {
	stmt := Compile(`select {0:raw} from users where id = {1}`, Cols(colsAddress{}), 10)
	eq(t, `select "city", "street" from users where id = @p0`, stmt.Text)
	eq(t, paramsOf(`@p0`, 10), stmt.Params)
}
