package pipeline

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewSkipsNilStages(t *testing.T) {
	var maybe Stage
	p := New(
		Match(bson.M{"isActive": 1}),
		maybe,
		Limit(10),
	)
	if len(p) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(p))
	}
	if p[0][0].Key != "$match" || p[1][0].Key != "$limit" {
		t.Errorf("unexpected stage order: %v", p)
	}
}

func TestLookup(t *testing.T) {
	got := Lookup("results", "_id", "subPolicyId", "resultDetails")
	want := bson.D{{Key: "$lookup", Value: bson.M{
		"from":         "results",
		"localField":   "_id",
		"foreignField": "subPolicyId",
		"as":           "resultDetails",
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestLookupScopedBindsLocalField(t *testing.T) {
	st := LookupScoped("results", "_id", "subPolicyId", "myResults", bson.M{"employeeId": "emp"})
	spec := st[0].Value.(bson.M)
	if spec["from"] != "results" || spec["as"] != "myResults" {
		t.Fatalf("unexpected lookup spec: %v", spec)
	}
	let := spec["let"].(bson.M)
	if let["local"] != "$_id" {
		t.Errorf("expected let.local to bind $_id, got %v", let["local"])
	}
	sub := spec["pipeline"].(mongo.Pipeline)
	if len(sub) != 1 {
		t.Fatalf("expected 1 sub-pipeline stage, got %d", len(sub))
	}
	match := sub[0][0].Value.(bson.M)
	if match["employeeId"] != "emp" {
		t.Errorf("extra condition dropped: %v", match)
	}
	if _, ok := match["$expr"]; !ok {
		t.Errorf("expected $expr foreign-key condition: %v", match)
	}
}

func TestGroupByIDKeepsAccumulatorOrder(t *testing.T) {
	st := GroupByID("$_id", bson.D{
		{Key: "name", Value: First("name")},
		{Key: "resultDetails", Value: Push("resultDetails")},
	})
	spec := st[0].Value.(bson.D)
	if spec[0].Key != "_id" || spec[1].Key != "name" || spec[2].Key != "resultDetails" {
		t.Errorf("unexpected group spec order: %v", spec)
	}
}

func TestUnwindPreserve(t *testing.T) {
	st := UnwindPreserve("policySettings")
	spec := st[0].Value.(bson.M)
	if spec["path"] != "$policySettings" {
		t.Errorf("unexpected path: %v", spec["path"])
	}
	if spec["preserveNullAndEmptyArrays"] != true {
		t.Errorf("expected preserveNullAndEmptyArrays")
	}
}

func TestSwitch(t *testing.T) {
	expr := Switch([]SwitchBranch{
		{Case: bson.M{"$eq": bson.A{"$a", "$b"}}, Then: "CORRECT"},
	}, "INCORRECT")
	sw := expr["$switch"].(bson.M)
	if sw["default"] != "INCORRECT" {
		t.Errorf("unexpected default: %v", sw["default"])
	}
	branches := sw["branches"].(bson.A)
	if len(branches) != 1 {
		t.Fatalf("expected 1 branch, got %d", len(branches))
	}
	if branches[0].(bson.M)["then"] != "CORRECT" {
		t.Errorf("unexpected branch: %v", branches[0])
	}
}

func TestPagingStages(t *testing.T) {
	if Skip(20)[0].Value.(int64) != 20 {
		t.Errorf("skip value lost")
	}
	if Limit(10)[0].Value.(int64) != 10 {
		t.Errorf("limit value lost")
	}
	c := Count("count")
	if c[0].Value != "count" {
		t.Errorf("count field lost")
	}
}
