package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
	"compliance-service/internal/pipeline"
)

// Collection names shared by the aggregation joins.
const (
	colSubPolicies      = "sub_policies"
	colPolicySettings   = "policy_settings"
	colQuestions        = "questions"
	colOptions          = "options"
	colAnswers          = "answers"
	colResults          = "results"
	colEmployees        = "employees"
	colTermsAcceptances = "terms_acceptances"
	colDueDates         = "due_dates"
)

// ReportOptions parameterizes the completed/outstanding report pipelines.
type ReportOptions struct {
	EmployeeID primitive.ObjectID
	SearchText string
	Sort       bson.D
	Skip       int64
	Limit      int64
	Paged      bool
}

func (o ReportOptions) matchActive() bson.M {
	match := bson.M{"isActive": 1}
	if o.SearchText != "" {
		match["name"] = primitive.Regex{Pattern: o.SearchText, Options: "i"}
	}
	return match
}

// completedStages is the shared join of the completed report: active
// sub-policies joined to their setting and to the requesting employee's
// results. Rows with no result for the employee are dropped; after the
// unwind, other employees' results are filtered out so the regrouped
// resultDetails array carries only the requester's attempts.
func completedStages(o ReportOptions) []pipeline.Stage {
	return []pipeline.Stage{
		pipeline.Match(o.matchActive()),
		pipeline.Project(bson.M{
			"_id":         1,
			"policyId":    1,
			"name":        1,
			"version":     1,
			"description": 1,
		}),
		pipeline.Lookup(colPolicySettings, "_id", "subPolicyId", "policySettingDetails"),
		pipeline.Lookup(colResults, "_id", "subPolicyId", "resultDetails"),
		pipeline.Match(bson.M{"resultDetails.employeeId": o.EmployeeID}),
		pipeline.Unwind("resultDetails"),
		pipeline.Match(bson.M{"resultDetails.employeeId": o.EmployeeID}),
		pipeline.GroupByID("$_id", bson.D{
			{Key: "policyId", Value: pipeline.First("policyId")},
			{Key: "name", Value: pipeline.First("name")},
			{Key: "version", Value: pipeline.First("version")},
			{Key: "description", Value: pipeline.First("description")},
			{Key: "policySettingDetails", Value: pipeline.First("policySettingDetails")},
			{Key: "resultDetails", Value: pipeline.Push("resultDetails")},
		}),
	}
}

// CompletedPipeline builds the sorted (and, when requested, paged)
// completed-report pipeline.
func CompletedPipeline(o ReportOptions) mongo.Pipeline {
	sort := o.Sort
	if len(sort) == 0 {
		sort = bson.D{{Key: "resultDetails.createdAt", Value: -1}}
	}
	stages := append(completedStages(o), pipeline.Sort(sort))
	if o.Paged {
		stages = append(stages, pipeline.Skip(o.Skip), pipeline.Limit(o.Limit))
	}
	return pipeline.New(stages...)
}

// CompletedCountPipeline counts the unpaginated filtered set; it must
// agree with CompletedPipeline for the same options.
func CompletedCountPipeline(o ReportOptions) mongo.Pipeline {
	stages := append(completedStages(o), pipeline.Count("count"))
	return pipeline.New(stages...)
}

// outstandingStages complements completion with an explicit anti-join:
// the results lookup is scoped to the employee, so `$size: 0` asserts the
// employee has no result on the sub-policy regardless of other employees'
// attempts. Eligibility additionally requires accepted terms and no open
// due-date exemption.
func outstandingStages(o ReportOptions) []pipeline.Stage {
	return []pipeline.Stage{
		pipeline.Match(o.matchActive()),
		pipeline.Project(bson.M{
			"_id":         1,
			"policyId":    1,
			"name":        1,
			"version":     1,
			"description": 1,
			"createdAt":   1,
		}),
		pipeline.Lookup(colPolicySettings, "_id", "subPolicyId", "policySettingDetails"),
		pipeline.LookupScoped(colResults, "_id", "subPolicyId", "resultDetails",
			bson.M{"employeeId": o.EmployeeID}),
		pipeline.Match(bson.M{"resultDetails": bson.M{"$size": 0}}),
		pipeline.LookupScoped(colTermsAcceptances, "_id", "subPolicyId", "termsDetails",
			bson.M{"employeeId": o.EmployeeID}),
		pipeline.Match(bson.M{"termsDetails.0": bson.M{"$exists": true}}),
		pipeline.LookupScoped(colDueDates, "_id", "subPolicyId", "dueDateDetails",
			bson.M{"employeeId": o.EmployeeID, "isOpen": 1}),
		pipeline.Match(bson.M{"dueDateDetails": bson.M{"$size": 0}}),
	}
}

func OutstandingPipeline(o ReportOptions) mongo.Pipeline {
	sort := o.Sort
	if len(sort) == 0 {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	stages := append(outstandingStages(o), pipeline.Sort(sort))
	if o.Paged {
		stages = append(stages, pipeline.Skip(o.Skip), pipeline.Limit(o.Limit))
	}
	return pipeline.New(stages...)
}

func OutstandingCountPipeline(o ReportOptions) mongo.Pipeline {
	stages := append(outstandingStages(o), pipeline.Count("count"))
	return pipeline.New(stages...)
}

// AnswerListOptions parameterizes the submitted-answers pipeline.
type AnswerListOptions struct {
	ResultID primitive.ObjectID
	Sort     bson.D
	Skip     int64
	Limit    int64
	Paged    bool
}

// SubmittedAnswersPipeline joins a result's answers to question and
// option details and derives a per-row correctness label. Paging happens
// before the joins; the per-page join cost is bounded by the page size.
func SubmittedAnswersPipeline(o AnswerListOptions) mongo.Pipeline {
	sort := o.Sort
	if len(sort) == 0 {
		sort = bson.D{{Key: "_id", Value: -1}}
	}
	stages := []pipeline.Stage{
		pipeline.Match(bson.M{"resultId": o.ResultID}),
		pipeline.Sort(sort),
	}
	if o.Paged {
		stages = append(stages, pipeline.Skip(o.Skip), pipeline.Limit(o.Limit))
	}
	stages = append(stages,
		pipeline.Lookup(colQuestions, "questionId", "_id", "questionDetails"),
		pipeline.UnwindPreserve("questionDetails"),
		pipeline.AddFields(bson.M{
			"questionText": "$questionDetails.questionText",
			"questionType": "$questionDetails.questionType",
			"answerStatus": pipeline.Switch([]pipeline.SwitchBranch{
				{Case: bson.M{"$eq": bson.A{"$answer", ""}}, Then: models.AnswerStatusUnanswered},
				{Case: bson.M{"$eq": bson.A{"$answer", "$questionDetails.answer"}}, Then: models.AnswerStatusCorrect},
			}, models.AnswerStatusIncorrect),
		}),
		pipeline.Lookup(colOptions, "questionId", "questionId", "optionsDetails"),
		pipeline.Project(bson.M{
			"_id":            1,
			"questionId":     1,
			"answer":         1,
			"answerStatus":   1,
			"questionText":   1,
			"questionType":   1,
			"optionsDetails": 1,
			"createdAt":      1,
		}),
	)
	return pipeline.New(stages...)
}

// QuestionListPipeline lists a sub-policy's questions for a user group
// with their options, optionally filtered by a case-insensitive text
// match on the question text.
func QuestionListPipeline(subPolicyID primitive.ObjectID, userGroup, searchText string) mongo.Pipeline {
	match := bson.M{
		"subPolicyId": subPolicyID,
		"userGroup":   userGroup,
	}
	if searchText != "" {
		match["questionText"] = primitive.Regex{Pattern: searchText, Options: "i"}
	}
	return pipeline.New(
		pipeline.Match(match),
		pipeline.Project(bson.M{
			"subPolicyId":  1,
			"userGroup":    1,
			"questionText": 1,
			"questionType": 1,
		}),
		pipeline.Lookup(colOptions, "_id", "questionId", "optionsDetails"),
		pipeline.Sort(bson.D{{Key: "_id", Value: -1}}),
	)
}

// QuestionDetailPipeline fetches one question with its options.
func QuestionDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	return pipeline.New(
		pipeline.Match(bson.M{"_id": id}),
		pipeline.Project(bson.M{
			"subPolicyId":  1,
			"userGroup":    1,
			"questionText": 1,
			"questionType": 1,
		}),
		pipeline.Lookup(colOptions, "_id", "questionId", "optionsDetails"),
	)
}

// SubPolicyListOptions parameterizes the sub-policy listing.
type SubPolicyListOptions struct {
	PolicyID primitive.ObjectID
	IsActive *int
	// FrontEnd restricts the listing to the employee-facing publish
	// window: published already, exam deadline not yet passed. A
	// sub-policy without a setting is kept only for admin listings.
	FrontEnd bool
	Now      time.Time
}

func SubPolicyListPipeline(o SubPolicyListOptions) mongo.Pipeline {
	match := bson.M{"policyId": o.PolicyID}
	if o.IsActive != nil {
		match["isActive"] = *o.IsActive
	}
	stages := []pipeline.Stage{
		pipeline.Match(match),
		pipeline.Project(bson.M{
			"_id":         1,
			"policyId":    1,
			"name":        1,
			"version":     1,
			"description": 1,
			"createdAt":   1,
		}),
		pipeline.Lookup(colPolicySettings, "_id", "subPolicyId", "policySettings"),
	}
	if o.FrontEnd {
		stages = append(stages,
			pipeline.Match(bson.M{
				"policySettings.publishDate":   bson.M{"$lt": o.Now},
				"policySettings.examTimeLimit": bson.M{"$gte": o.Now},
			}),
			pipeline.Unwind("policySettings"),
		)
	} else {
		stages = append(stages, pipeline.UnwindPreserve("policySettings"))
	}
	return pipeline.New(stages...)
}
