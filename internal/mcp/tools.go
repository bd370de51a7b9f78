package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/models"
)

// --- Tool definitions ---

var toolCalcRepMax = mcp.NewTool("calc_rep_max",
	mcp.WithDescription("Estimate a one-rep max from a submaximal set using six published formulas (Epley, Brzycki, Lombardi, Mayhew, O'Conner, Wathan). Returns each formula's estimate, their mean, and a 100%..50% training percentage table."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps completed (1-36)")),
	mcp.WithNumber("increment", mcp.Description("Rounding increment for the percentage table. Defaults to 5.")),
)

var toolCalcPlates = mcp.NewTool("calc_plates",
	mcp.WithDescription("Compute the per-side plate loadout for a target barbell weight, heaviest plate first. Reports any per-side remainder that cannot be loaded from the standard inventory."),
	mcp.WithNumber("target", mcp.Required(), mcp.Description("Target total weight including the bar")),
	mcp.WithString("unit", mcp.Required(), mcp.Description("Unit system"), mcp.Enum("lb", "kg")),
	mcp.WithNumber("bar_weight", mcp.Description("Bar weight. Defaults to the unit's standard bar (45 lb / 20 kg).")),
)

var toolCalcStrengthScores = mcp.NewTool("calc_strength_scores",
	mcp.WithDescription("Compute WILKS, DOTS, and IPF GL points for a powerlifting total, normalizing strength across bodyweights."),
	mcp.WithNumber("bodyweight_kg", mcp.Required(), mcp.Description("Lifter bodyweight in kilograms")),
	mcp.WithNumber("total_kg", mcp.Required(), mcp.Description("Competition total in kilograms")),
	mcp.WithString("sex", mcp.Required(), mcp.Description("Lifter sex for the coefficient set"), mcp.Enum("male", "female")),
)

var toolGetDayPlan = mcp.NewTool("get_day_plan",
	mcp.WithDescription("Resolve one training day of the current cycle into concrete prescriptions: weights from training maxes and intensities, linear working weights, top singles, and any manual overrides."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Week number, 1-based")),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Day number within the week, 1-based")),
	mcp.WithString("cycle_id", mcp.Description("Cycle UUID. Defaults to the current cycle.")),
)

var toolGetTrainingMaxes = mcp.NewTool("get_training_maxes",
	mcp.WithDescription("List the per-lift training maxes of a cycle."),
	mcp.WithString("cycle_id", mcp.Description("Cycle UUID. Defaults to the current cycle.")),
)

var toolGetLiftLogs = mcp.NewTool("get_lift_logs",
	mcp.WithDescription("Query logged sessions of a cycle, newest first, optionally filtered by lift."),
	mcp.WithString("cycle_id", mcp.Description("Cycle UUID. Defaults to the current cycle.")),
	mcp.WithString("lift", mcp.Description("Filter by lift name")),
)

var toolLogStructuredSet = mcp.NewTool("log_structured_set",
	mcp.WithDescription("Record AMRAP reps for one set of a structured or volume item. Logging the item's progression set autoregulates the training max; re-logging replaces the earlier adjustment."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift name")),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Week number, 1-based")),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Day number within the week, 1-based")),
	mcp.WithNumber("set_index", mcp.Required(), mcp.Description("Zero-based set index within the item")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps completed")),
	mcp.WithString("cycle_id", mcp.Description("Cycle UUID. Defaults to the current cycle.")),
)

var toolQuerySetHistory = mcp.NewTool("query_set_history",
	mcp.WithDescription("Query the imported historical set archive: every recorded working set with weight, reps, and AMRAP flag, newest session first. Useful for spotting rep PRs and long-term trends."),
	mcp.WithString("start", mcp.Description("Earliest session date, inclusive (2006-01-02 or RFC3339). Defaults to the beginning of the archive.")),
	mcp.WithString("end", mcp.Description("Latest session date, exclusive (2006-01-02 or RFC3339). Defaults to today.")),
	mcp.WithString("lift", mcp.Description("Filter by lift name, partial match")),
)

// --- Tool handlers ---

// resolveCycleID returns the explicit cycle_id argument or falls back to
// the current cycle.
func (h *handlers) resolveCycleID(ctx context.Context, req mcp.CallToolRequest) (uuid.UUID, error) {
	if s := req.GetString("cycle_id", ""); s != "" {
		return uuid.Parse(s)
	}
	cycle, err := h.ds.CurrentCycle(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return cycle.ID, nil
}

func (h *handlers) calcRepMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	est, err := engine.EstimateRepMax(weight, reps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	increment := req.GetFloat("increment", 5)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"estimate": est,
		"table":    engine.PercentTable(est.Mean, increment),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) calcPlates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError("target parameter is required"), nil
	}
	unitStr, err := req.RequireString("unit")
	if err != nil {
		return mcp.NewToolResultError("unit parameter is required"), nil
	}
	unit := models.UnitSystem(unitStr)
	if !unit.Valid() {
		return mcp.NewToolResultError("unit must be \"lb\" or \"kg\""), nil
	}

	loadout, err := engine.CalculatePlates(target, req.GetFloat("bar_weight", 0), unit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(loadout)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) calcStrengthScores(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bw, err := req.RequireFloat("bodyweight_kg")
	if err != nil {
		return mcp.NewToolResultError("bodyweight_kg parameter is required"), nil
	}
	total, err := req.RequireFloat("total_kg")
	if err != nil {
		return mcp.NewToolResultError("total_kg parameter is required"), nil
	}
	sexStr, err := req.RequireString("sex")
	if err != nil {
		return mcp.NewToolResultError("sex parameter is required"), nil
	}
	sex := models.Sex(sexStr)

	wilks, wilksOK, err := engine.WilksScore(bw, total, sex)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dots, dotsOK, _ := engine.DotsScore(bw, total, sex)
	glp, glpOK, _ := engine.IPFGLPoints(bw, total, sex)

	type score struct {
		Value float64 `json:"value"`
		OK    bool    `json:"ok"`
	}
	result, err := mcp.NewToolResultJSON(map[string]score{
		"wilks":  {Value: engine.RoundDecimals(wilks, 2), OK: wilksOK},
		"dots":   {Value: engine.RoundDecimals(dots, 2), OK: dotsOK},
		"ipf_gl": {Value: engine.RoundDecimals(glp, 2), OK: glpOK},
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDayPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	cycleID, err := h.resolveCycleID(ctx, req)
	if err != nil {
		return mcp.NewToolResultError("no cycle available: " + err.Error()), nil
	}

	items, err := h.ds.DayPlan(ctx, cycleID, week, day)
	if err != nil {
		h.log.Error("mcp get_day_plan", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"week":  week,
		"day":   day,
		"items": items,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingMaxes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cycleID, err := h.resolveCycleID(ctx, req)
	if err != nil {
		return mcp.NewToolResultError("no cycle available: " + err.Error()), nil
	}

	maxes, err := h.ds.GetTrainingMaxes(ctx, cycleID)
	if err != nil {
		h.log.Error("mcp get_training_maxes", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(maxes)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLiftLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cycleID, err := h.resolveCycleID(ctx, req)
	if err != nil {
		return mcp.NewToolResultError("no cycle available: " + err.Error()), nil
	}

	logs, err := h.ds.QueryLiftLogs(ctx, cycleID, req.GetString("lift", ""))
	if err != nil {
		h.log.Error("mcp get_lift_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logStructuredSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	setIndex, err := req.RequireInt("set_index")
	if err != nil {
		return mcp.NewToolResultError("set_index parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	cycleID, err := h.resolveCycleID(ctx, req)
	if err != nil {
		return mcp.NewToolResultError("no cycle available: " + err.Error()), nil
	}

	updated, err := h.ds.LogStructuredSet(ctx, cycleID, lift, week, day, setIndex, reps)
	if err != nil {
		h.log.Error("mcp log_structured_set", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"logged":           true,
		"new_training_max": updated,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) querySetHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := parseHistoryTime(req.GetString("start", ""), time.Time{})
	if err != nil {
		return mcp.NewToolResultError("start: " + err.Error()), nil
	}
	end, err := parseHistoryTime(req.GetString("end", ""), time.Now().UTC().AddDate(0, 0, 1))
	if err != nil {
		return mcp.NewToolResultError("end: " + err.Error()), nil
	}

	sets, err := h.ds.QuerySetHistory(ctx, start, end, req.GetString("lift", ""))
	if err != nil {
		h.log.Error("mcp query_set_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"count": len(sets),
		"sets":  sets,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// parseHistoryTime accepts a date or RFC3339 timestamp, falling back to
// def when the value is empty.
func parseHistoryTime(v string, def time.Time) (time.Time, error) {
	if v == "" {
		return def, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a date (2006-01-02) or RFC3339 timestamp", v)
	}
	return t, nil
}
