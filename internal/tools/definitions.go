package tools

// Definition is a function tool schema in the realtime session format.
type Definition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enumProp(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

func objectSchema(required []string, props map[string]any) map[string]any {
	return map[string]any{"type": "object", "properties": props, "required": required}
}

// Definitions returns the CRM and scheduling tools offered to the model.
// Each call builds a fresh slice.
func Definitions() []Definition {
	return []Definition{
		{
			Type: "function",
			Name: "check_customer_history",
			Description: "Check customer history by phone number. " +
				"Call IMMEDIATELY when the customer provides their phone number. " +
				"Do not respond to the customer until you get the result.",
			Parameters: objectSchema([]string{"phone_number"}, map[string]any{
				"phone_number": stringProp("Customer phone number (e.g. +14155550123)"),
			}),
		},
		{
			Type:        "function",
			Name:        "add_customer_record",
			Description: "Add a new customer support record to the CRM.",
			Parameters: objectSchema([]string{"name", "email", "issue", "status", "priority"}, map[string]any{
				"make":     stringProp("Vehicle make (e.g. Toyota)"),
				"model":    stringProp("Vehicle model (e.g. Corolla)"),
				"km":       stringProp("Vehicle kilometres"),
				"name":     stringProp("Customer name"),
				"email":    stringProp("Customer email address"),
				"phone":    stringProp("Customer phone number (optional)"),
				"issue":    stringProp("Description of the customer issue"),
				"status":   enumProp("Ticket status", "open", "in-progress", "resolved", "closed"),
				"priority": enumProp("Priority level", "low", "medium", "high", "urgent"),
				"notes":    stringProp("Additional notes (optional)"),
			}),
		},
		{
			Type: "function",
			Name: "get_service_pricing",
			Description: "YOU MUST CALL THIS before quoting ANY price. " +
				"Never say a price without calling this first. " +
				"Common services: oil change, full service, brake service, tire rotation, " +
				"engine diagnostic, transmission service, ac service, battery replacement.",
			Parameters: objectSchema([]string{"service_type", "vehicle_type"}, map[string]any{
				"service_type": stringProp("Type of service (e.g. oil change, brake service)"),
				"vehicle_type": stringProp("Type of vehicle: sedan, suv, or truck"),
			}),
		},
		{
			Type: "function",
			Name: "check_availability",
			Description: "YOU MUST CALL THIS before suggesting appointment times. " +
				"Do not make up time slots. Customer needs real availability.",
			Parameters: objectSchema([]string{"eventTypeUri", "startTime", "endTime"}, map[string]any{
				"eventTypeUri": stringProp("The Calendly event type URI"),
				"startTime":    stringProp("Start of search window (ISO 8601, e.g. 2025-12-15T00:00:00Z)"),
				"endTime":      stringProp("End of search window (ISO 8601, e.g. 2025-12-22T23:59:59Z)"),
			}),
		},
		{
			Type: "function",
			Name: "create_event",
			Description: "Create an appointment booking for a customer with a scheduling link. " +
				"Only call this after the customer has explicitly confirmed the appointment.",
			Parameters: objectSchema([]string{"eventTypeUri", "customerName", "customerEmail"}, map[string]any{
				"eventTypeUri":  stringProp("Calendly event type URI"),
				"customerName":  stringProp("Customer name"),
				"customerEmail": stringProp("Customer email"),
				"customerPhone": stringProp("Phone number (optional)"),
				"preferredDate": stringProp("Preferred ISO datetime (optional, e.g. 2025-12-15T10:00:00Z)"),
				"notes":         stringProp("Booking notes (optional)"),
			}),
		},
	}
}
