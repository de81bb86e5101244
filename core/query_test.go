package core

import "testing"

func TestQueryDatatypesIsSortedAndStable(t *testing.T) {
	table1, err := ResolveSchema(SchemaRequest{Datatype: DatatypeTransactions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table2, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := &Query{Schemas: map[Datatype]*Table{
		DatatypeTransactions: table1,
		DatatypeBlocks:       table2,
	}}

	first := q.Datatypes()
	second := q.Datatypes()
	if len(first) != 2 {
		t.Fatalf("expected 2 datatypes, got %d", len(first))
	}
	if first[0] != second[0] || first[1] != second[1] {
		t.Fatalf("expected Datatypes() to return a stable order across calls, got %v then %v", first, second)
	}
	if first[0] != DatatypeBlocks || first[1] != DatatypeTransactions {
		t.Fatalf("expected blocks before transactions (lower underlying int value), got %v", first)
	}
}
