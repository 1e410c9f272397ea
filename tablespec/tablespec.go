// Package tablespec holds the fixed definitions of the tables the sync tool
// is able to extract and push.
package tablespec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Table ties a source table to its target name on the API server and the
// verbatim extraction query to run against the source.
type Table struct {
	SourceName string
	TargetName string
	Query      string
}

func (t Table) Validate() error {
	if t.SourceName == "" {
		return errors.Newf("table has no source name")
	}
	if t.TargetName == "" {
		return errors.Newf("table %s has no target name", t.SourceName)
	}
	if t.Query == "" {
		return errors.Newf("table %s has no extraction query", t.SourceName)
	}
	return nil
}

func (t Table) SafeString() string {
	return fmt.Sprintf("%s -> %s", t.SourceName, t.TargetName)
}

// registry maps a logical table name to its fixed extraction query. Table
// names are interpolated into identifier positions of the SQL text below
// (identifiers cannot be bound as parameters); that is safe only because
// every name originates here, never from external input. Extending this
// registry from an untrusted source requires an allow-list check first.
var registry = func() map[string]Table {
	ret := make(map[string]Table)
	for _, t := range []Table{
		{
			SourceName: "rrc_clients",
			TargetName: "rrc_clients",
			Query:      clientsQuery("rrc_clients"),
		},
		{
			SourceName: "rrc_product",
			TargetName: "rrc_product",
			Query:      productQuery("rrc_product"),
		},
	} {
		if err := t.Validate(); err != nil {
			panic(err)
		}
		ret[t.SourceName] = t
	}
	return ret
}()

// Lookup returns the fixed definition for a logical table name.
func Lookup(name string) (Table, bool) {
	t, ok := registry[name]
	return t, ok
}

// Resolve maps logical names to their definitions, failing on any name the
// registry does not know.
func Resolve(names []string) ([]Table, error) {
	ret := make([]Table, 0, len(names))
	for _, name := range names {
		t, ok := Lookup(name)
		if !ok {
			return nil, errors.Newf("no extraction query defined for table %q", name)
		}
		ret = append(ret, t)
	}
	return ret, nil
}

// Names lists the registered logical table names in sorted order.
func Names() []string {
	ret := make([]string, 0, len(registry))
	for name := range registry {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// clientsQuery projects the client master records that deal directly,
// resolving the software code to its product name.
func clientsQuery(table string) string {
	t := quoteIdent(table)
	cols := []string{
		"code", "name", "address", "branch", "district", "state",
	}
	var sb strings.Builder
	sb.WriteString("SELECT\n")
	for _, col := range cols {
		fmt.Fprintf(&sb, "  %s.%s,\n", t, quoteIdent(col))
	}
	fmt.Fprintf(&sb, "  %s.%s AS %s,\n", quoteIdent("rrc_product"), quoteIdent("name"), quoteIdent("software"))
	for _, col := range []string{
		"mobile", "installationdate", "priorty", "directdealing", "rout",
		"amc", "amcamt", "accountcode", "address3", "lictype", "clients",
		"sp", "nature",
	} {
		fmt.Fprintf(&sb, "  %s.%s,\n", t, quoteIdent(col))
	}
	out := strings.TrimSuffix(sb.String(), ",\n") + "\n"
	out += fmt.Sprintf("FROM %s\n", t)
	out += fmt.Sprintf(
		"LEFT JOIN %s ON %s.%s = %s.%s\n",
		quoteIdent("rrc_product"), t, quoteIdent("software"), quoteIdent("rrc_product"), quoteIdent("code"),
	)
	out += fmt.Sprintf("WHERE %s.%s IN ('Y','S')", t, quoteIdent("directdealing"))
	return out
}

func productQuery(table string) string {
	t := quoteIdent(table)
	return fmt.Sprintf("SELECT %s.%s, %s.%s FROM %s", t, quoteIdent("code"), t, quoteIdent("name"), t)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
