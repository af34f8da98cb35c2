package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageKeys(p mongo.Pipeline) []string {
	keys := make([]string, len(p))
	for i, s := range p {
		keys[i] = s[0].Key
	}
	return keys
}

func findStage(t *testing.T, p mongo.Pipeline, key string, nth int) bson.D {
	t.Helper()
	seen := 0
	for _, s := range p {
		if s[0].Key == key {
			if seen == nth {
				return s
			}
			seen++
		}
	}
	t.Fatalf("stage %s #%d not found in %v", key, nth, stageKeys(p))
	return nil
}

func TestCompletedPipelineShape(t *testing.T) {
	emp := primitive.NewObjectID()
	p := CompletedPipeline(ReportOptions{EmployeeID: emp, Paged: true, Skip: 10, Limit: 10})

	first := p[0][0]
	if first.Key != "$match" {
		t.Fatalf("pipeline must start with $match, got %s", first.Key)
	}
	if first.Value.(bson.M)["isActive"] != 1 {
		t.Errorf("active filter missing: %v", first.Value)
	}

	// Existence filter on the lookup array, then per-row filter after the
	// unwind so regrouped results belong to the requesting employee only.
	pre := findStage(t, p, "$match", 1)[0].Value.(bson.M)
	if pre["resultDetails.employeeId"] != emp {
		t.Errorf("employee existence filter missing: %v", pre)
	}
	post := findStage(t, p, "$match", 2)[0].Value.(bson.M)
	if post["resultDetails.employeeId"] != emp {
		t.Errorf("post-unwind employee filter missing: %v", post)
	}

	keys := stageKeys(p)
	want := []string{"$match", "$project", "$lookup", "$lookup", "$match", "$unwind", "$match", "$group", "$sort", "$skip", "$limit"}
	if len(keys) != len(want) {
		t.Fatalf("stage keys %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("stage %d = %s, want %s (%v)", i, keys[i], want[i], keys)
		}
	}
}

func TestCompletedCountPipelineSharesFilters(t *testing.T) {
	opts := ReportOptions{EmployeeID: primitive.NewObjectID(), SearchText: "gdpr"}
	count := CompletedCountPipeline(opts)

	last := count[len(count)-1]
	if last[0].Key != "$count" {
		t.Fatalf("count pipeline must end with $count, got %s", last[0].Key)
	}
	match := count[0][0].Value.(bson.M)
	re, ok := match["name"].(primitive.Regex)
	if !ok || re.Pattern != "gdpr" || re.Options != "i" {
		t.Errorf("case-insensitive name filter missing: %v", match)
	}

	// Count must see the same filtered set as the page query: identical
	// stages up to the group, no skip/limit.
	paged := CompletedPipeline(ReportOptions{EmployeeID: opts.EmployeeID, SearchText: "gdpr", Paged: true, Limit: 10})
	for i, key := range stageKeys(count)[:len(count)-1] {
		if stageKeys(paged)[i] != key {
			t.Fatalf("count pipeline diverges from page pipeline at stage %d", i)
		}
	}
}

func TestOutstandingPipelineAntiJoin(t *testing.T) {
	emp := primitive.NewObjectID()
	p := OutstandingPipeline(ReportOptions{EmployeeID: emp})

	// Results lookup must be scoped to the employee, not a bare foreign
	// key join: other employees' results may exist on the sub-policy.
	lookup := findStage(t, p, "$lookup", 1)[0].Value.(bson.M)
	if lookup["as"] != "resultDetails" {
		t.Fatalf("expected scoped results lookup second, got %v", lookup["as"])
	}
	sub := lookup["pipeline"].(mongo.Pipeline)
	subMatch := sub[0][0].Value.(bson.M)
	if subMatch["employeeId"] != emp {
		t.Errorf("results lookup not scoped to employee: %v", subMatch)
	}

	empty := findStage(t, p, "$match", 1)[0].Value.(bson.M)
	if size, ok := empty["resultDetails"].(bson.M); !ok || size["$size"] != 0 {
		t.Errorf("anti-join $size: 0 match missing: %v", empty)
	}

	// Terms must be accepted, and no open due-date exemption.
	terms := findStage(t, p, "$match", 2)[0].Value.(bson.M)
	if _, ok := terms["termsDetails.0"]; !ok {
		t.Errorf("terms-accepted filter missing: %v", terms)
	}
	due := findStage(t, p, "$match", 3)[0].Value.(bson.M)
	if size, ok := due["dueDateDetails"].(bson.M); !ok || size["$size"] != 0 {
		t.Errorf("open due-date exclusion missing: %v", due)
	}

	last := p[len(p)-1]
	if last[0].Key != "$sort" {
		t.Errorf("unpaged pipeline should end with $sort, got %s", last[0].Key)
	}
}

func TestSubmittedAnswersPipeline(t *testing.T) {
	rid := primitive.NewObjectID()
	p := SubmittedAnswersPipeline(AnswerListOptions{ResultID: rid, Paged: true, Skip: 0, Limit: 10})

	match := p[0][0].Value.(bson.M)
	if match["resultId"] != rid {
		t.Errorf("result filter missing: %v", match)
	}

	sort := p[1][0].Value.(bson.D)
	if sort[0].Key != "_id" || sort[0].Value != -1 {
		t.Errorf("default sort should be _id descending, got %v", sort)
	}

	keys := stageKeys(p)
	want := []string{"$match", "$sort", "$skip", "$limit", "$lookup", "$unwind", "$addFields", "$lookup", "$project"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("stage %d = %s, want %s (%v)", i, keys[i], want[i], keys)
		}
	}

	derived := findStage(t, p, "$addFields", 0)[0].Value.(bson.M)
	if _, ok := derived["answerStatus"].(bson.M)["$switch"]; !ok {
		t.Errorf("answerStatus must be a $switch derivation: %v", derived)
	}
}

func TestSubPolicyListPipelineFrontEndWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := 1
	p := SubPolicyListPipeline(SubPolicyListOptions{
		PolicyID: primitive.NewObjectID(),
		IsActive: &active,
		FrontEnd: true,
		Now:      now,
	})

	window := findStage(t, p, "$match", 1)[0].Value.(bson.M)
	pub := window["policySettings.publishDate"].(bson.M)
	if pub["$lt"] != now {
		t.Errorf("publish window lower bound wrong: %v", pub)
	}
	deadline := window["policySettings.examTimeLimit"].(bson.M)
	if deadline["$gte"] != now {
		t.Errorf("exam deadline bound wrong: %v", deadline)
	}

	last := p[len(p)-1]
	if last[0].Key != "$unwind" {
		t.Errorf("front-end listing must unwind settings, got %s", last[0].Key)
	}
	if _, isPlain := last[0].Value.(string); !isPlain {
		t.Errorf("front-end unwind must not preserve empty settings")
	}
}
