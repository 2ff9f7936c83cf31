package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/mark3labs/mcp-go/mcp"
)

// stateView is the JSON shape returned by booking-state.
type stateView struct {
	Step       int               `json:"step"`
	Title      string            `json:"title"`
	Phase      string            `json:"phase"`
	CanAdvance bool              `json:"can_advance"`
	CanGoBack  bool              `json:"can_go_back"`
	Missing    []string          `json:"missing,omitempty"`
	Answers    map[string]string `json:"answers"`
	Warnings   []string          `json:"warnings,omitempty"`
	Summary    *booking.Summary  `json:"summary,omitempty"`
	SubmitErr  string            `json:"submit_error,omitempty"`
}

func (s *Server) view() stateView {
	snap := s.engine.Snapshot()
	answers := make(map[string]string)
	for f := booking.FieldArtist; f <= booking.FieldNotes; f++ {
		if v := snap.Draft.Get(f); v != "" {
			answers[f.String()] = v
		}
	}
	if snap.Draft.HasDate() {
		answers["date"] = snap.Draft.SelectedDate.Format(booking.DateLayout)
	}
	if snap.Draft.Reference != nil {
		answers["reference_image"] = snap.Draft.Reference.Filename
	}

	v := stateView{
		Step:       int(snap.Step),
		Title:      snap.Config.Title,
		Phase:      snap.Phase.String(),
		CanAdvance: snap.CanAdvance,
		CanGoBack:  snap.CanGoBack,
		Missing:    snap.Missing,
		Answers:    answers,
		Warnings:   snap.Draft.ContactWarnings(),
	}
	if summary, ok := s.engine.Summary(); ok {
		v.Summary = &summary
	}
	if err := s.engine.SubmitErr(); err != nil {
		v.SubmitErr = err.Error()
	}
	return v
}

// stateResult renders the current state, prefixed by a status line.
func (s *Server) stateResult(status string) *mcp.CallToolResult {
	data, err := json.MarshalIndent(s.view(), "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to encode state: %v", err))
	}
	if status == "" {
		return mcp.NewToolResultText(string(data))
	}
	return mcp.NewToolResultText(status + "\n" + string(data))
}

// rejection turns an engine error into a tool error result.
func rejection(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("rejected: %v", err))
}

func stringArg(args map[string]any, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok
}

func (s *Server) handleBookingState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stateResult(""), nil
}

func (s *Server) handleCatalogOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, ok := stringArg(args, "field")
	if !ok || name == "" {
		return mcp.NewToolResultText("error: missing or invalid 'field' parameter"), nil
	}
	field, ok := booking.ParseField(name)
	if !ok || !wizard.IsSelectable(field) {
		return mcp.NewToolResultText(fmt.Sprintf("error: %q has no catalog options", name)), nil
	}

	var lines []string
	for _, o := range s.engine.Catalog().Options(field) {
		line := fmt.Sprintf("%s: %s", o.ID, o.Label)
		if o.Detail != "" {
			line += " (" + o.Detail + ")"
		}
		lines = append(lines, line)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleSelectOption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := stringArg(args, "field")
	value, ok := stringArg(args, "value")
	if !ok || value == "" {
		return mcp.NewToolResultText("error: missing or invalid 'value' parameter"), nil
	}
	field, ok := booking.ParseField(name)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown field %q", name)), nil
	}

	if err := s.engine.SelectOption(field, value); err != nil {
		return rejection(err), nil
	}
	s.settleEngine()
	return s.stateResult(fmt.Sprintf("Selected %s=%s", field, value)), nil
}

func (s *Server) handleSetField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := stringArg(args, "field")
	value, ok := stringArg(args, "value")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'value' parameter"), nil
	}
	field, ok := booking.ParseField(name)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown field %q (expected one of: %s)", name, fieldNames)), nil
	}

	if err := s.engine.SetField(field, value); err != nil {
		return rejection(err), nil
	}
	return s.stateResult(fmt.Sprintf("Updated %s", field)), nil
}

func (s *Server) handleSetDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := stringArg(request.GetArguments(), "date")
	if !ok || raw == "" {
		return mcp.NewToolResultText("error: missing or invalid 'date' parameter"), nil
	}
	date, err := time.ParseInLocation(booking.DateLayout, raw, time.Local)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: date must be YYYY-MM-DD: %v", err)), nil
	}

	if err := s.engine.SetDate(date); err != nil {
		return rejection(err), nil
	}
	return s.stateResult("Date set to " + raw), nil
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.engine.Next(); err != nil {
		return rejection(err), nil
	}
	return s.stateResult(""), nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.engine.Back(); err != nil {
		return rejection(err), nil
	}
	return s.stateResult(""), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.engine.Submit(); err != nil {
		return rejection(err), nil
	}
	s.settleEngine()

	summary, ok := s.engine.Summary()
	if !ok {
		return s.stateResult("Submission started"), nil
	}
	msg := fmt.Sprintf("Booking submitted. Reference: %s", summary.Reference)
	if err := s.engine.SubmitErr(); err != nil {
		msg += fmt.Sprintf(" (follow-up failed: %v)", err)
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engine.Reset()
	return s.stateResult("Booking reset"), nil
}
