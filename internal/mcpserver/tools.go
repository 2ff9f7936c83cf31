package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// fieldNames lists every booking field accepted by set-field.
const fieldNames = "artist, description, placement, size, time, budget, name, email, phone, notes"

// registerTools registers all wizard tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("booking-state",
			mcp.WithDescription("Show the current wizard step, what is still missing and the answers so far"),
		),
		s.handleBookingState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("catalog-options",
			mcp.WithDescription("List the selectable options for a catalog field"),
			mcp.WithString("field", mcp.Required(),
				mcp.Description("One of: artist, placement, size, time, budget"),
				mcp.Enum("artist", "placement", "size", "time", "budget")),
		),
		s.handleCatalogOptions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("select-option",
			mcp.WithDescription("Choose a catalog option by ID. On artist, placement, size, time and budget steps a complete choice moves to the next step"),
			mcp.WithString("field", mcp.Required(),
				mcp.Description("One of: artist, placement, size, time, budget"),
				mcp.Enum("artist", "placement", "size", "time", "budget")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Option ID from catalog-options")),
		),
		s.handleSelectOption,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set-field",
			mcp.WithDescription("Set a free-text answer such as the tattoo description or contact details"),
			mcp.WithString("field", mcp.Required(), mcp.Description("One of: "+fieldNames)),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value; an empty string clears the field")),
		),
		s.handleSetField,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set-date",
			mcp.WithDescription("Set the appointment day, from tomorrow up to the booking window"),
			mcp.WithString("date", mcp.Required(), mcp.Description("Day in YYYY-MM-DD format")),
		),
		s.handleSetDate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("next-step",
			mcp.WithDescription("Move to the next step once the current one is complete"),
		),
		s.handleNext,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("previous-step",
			mcp.WithDescription("Go back one step, keeping all answers"),
		),
		s.handleBack,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("submit-booking",
			mcp.WithDescription("Submit the booking from the review step and return the confirmation"),
		),
		s.handleSubmit,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reset-booking",
			mcp.WithDescription("Discard all answers and start again from the first step"),
		),
		s.handleReset,
	)
}
