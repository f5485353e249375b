package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody  = "Invalid request body"
	ErrMsgSectionIDRequired   = "section_id is required"
	ErrMsgTemplateIDRequired  = "template_id is required"
	ErrMsgInstructionRequired = "instruction is required"
	ErrMsgDatabaseIDRequired  = "notion_database_id is required"
)
