package core

import "testing"

func TestResolveSchemaDefaultColumns(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) == 0 {
		t.Fatalf("expected default columns to be non-empty")
	}
	found := false
	for _, c := range table.Columns {
		if c == "number" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected default blocks columns to include \"number\", got %v", table.Columns)
	}
}

func TestResolveSchemaAllColumns(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks, AllColumns: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spec := DatatypeBlocks.Spec()
	if len(table.Columns) != len(spec.ColumnOrder) {
		t.Fatalf("expected all %d catalog columns, got %d", len(spec.ColumnOrder), len(table.Columns))
	}
}

func TestResolveSchemaIncludeColumns(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{
		Datatype:       DatatypeBlocks,
		IncludeColumns: []string{"extra_data"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, c := range table.Columns {
		if c == "extra_data" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected extra_data to be included, got %v", table.Columns)
	}
}

func TestResolveSchemaExcludeColumns(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{
		Datatype:       DatatypeBlocks,
		ExcludeColumns: []string{"timestamp"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range table.Columns {
		if c == "timestamp" {
			t.Fatalf("expected timestamp to be excluded, got %v", table.Columns)
		}
	}
}

func TestResolveSchemaIncludeExcludeConflictErrors(t *testing.T) {
	_, err := ResolveSchema(SchemaRequest{
		Datatype:       DatatypeBlocks,
		IncludeColumns: []string{"timestamp"},
		ExcludeColumns: []string{"timestamp"},
	})
	if err == nil {
		t.Fatalf("expected error including and excluding the same column")
	}
}

func TestResolveSchemaAllColumnsIgnoresExclude(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{
		Datatype:       DatatypeBlocks,
		AllColumns:     true,
		ExcludeColumns: []string{"timestamp"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, c := range table.Columns {
		if c == "timestamp" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected columns=all to override exclude_columns, got %v", table.Columns)
	}
}

func TestResolveSchemaUnknownColumnErrors(t *testing.T) {
	_, err := ResolveSchema(SchemaRequest{
		Datatype:       DatatypeBlocks,
		IncludeColumns: []string{"not_a_real_column"},
	})
	if err == nil {
		t.Fatalf("expected error including an unknown column")
	}
}

func TestResolveSchemaHexRewritesBinaryColumns(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks, Hex: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Types["hash"] != ColumnHex {
		t.Fatalf("expected hash column to become ColumnHex under --hex, got %v", table.Types["hash"])
	}
}

func TestResolveSchemaU256FanOut(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{
		Datatype:             DatatypeBlocks,
		Columns:              []string{"base_fee_per_gas"},
		U256Representations:  []U256Representation{U256String, U256U64},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 2 {
		t.Fatalf("expected a uint256 column to fan out into 2 physical columns, got %v", table.Columns)
	}
	if table.Columns[0] != "base_fee_per_gas_string" || table.Columns[1] != "base_fee_per_gas_u64" {
		t.Fatalf("unexpected fan-out column names: %v", table.Columns)
	}
}

func TestResolveSchemaSortNoneDisables(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks, SortColumns: []string{"none"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.SortColumns != nil {
		t.Fatalf("expected sort=none to disable sorting, got %v", table.SortColumns)
	}
}

func TestResolveSchemaDefaultSort(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.SortColumns) == 0 || table.SortColumns[0] != "number" {
		t.Fatalf("expected default sort by number, got %v", table.SortColumns)
	}
}

func TestResolveSchemaUnknownDatatypeErrors(t *testing.T) {
	if _, err := ResolveSchema(SchemaRequest{Datatype: Datatype(-1)}); err == nil {
		t.Fatalf("expected error for an unknown datatype")
	}
}
