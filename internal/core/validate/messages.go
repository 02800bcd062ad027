package validate

// Field is the category a value belongs to; it selects the message table
// used to surface a validation failure.
type Field string

const (
	FieldTrackingID  Field = "Tracking ID"
	FieldOrigin      Field = "Origin"
	FieldDestination Field = "Destination"
	FieldLocation    Field = "Location"
	FieldDate        Field = "Date"
	FieldEmail       Field = "Email"
	FieldPassword    Field = "Password"
	FieldStatus      Field = "Status"
)

// SomethingWentWrong is the fixed fallback for upstream errors that carry no
// usable message.
const SomethingWentWrong = "Something went wrong"

// messageTable holds the user-facing strings for one field category. Empty
// entries fall through to the next priority level.
type messageTable struct {
	required  string
	format    string
	minLength string
	maxLength string
	charset   string
	generic   string
}

func placeTable(name, generic string) messageTable {
	return messageTable{
		required:  name + " is required",
		minLength: name + " must be at least 2 characters",
		maxLength: name + " cannot exceed 100 characters",
		charset:   name + " can only contain letters, spaces, and hyphens",
		generic:   generic,
	}
}

var messageTables = map[Field]messageTable{
	FieldTrackingID: {
		required: "Tracking ID is required",
		format:   "Invalid Tracking ID format. Expected: DHL followed by 6 digits (e.g., DHL905514)",
		generic:  "Invalid Tracking ID",
	},
	FieldOrigin:      placeTable("Origin", "Invalid origin"),
	FieldDestination: placeTable("Destination", "Invalid destination"),
	FieldLocation:    placeTable("Location", "Invalid location"),
	FieldDate: {
		required: "Date is required",
		format:   "Date must be in the future",
		generic:  "Invalid date",
	},
	FieldEmail: {
		required: "Email is required",
		format:   "Please enter a valid email address",
		generic:  "Invalid email",
	},
	FieldPassword: {
		required: "Password is required",
		format:   "Password must be at least 6 characters",
		generic:  "Invalid password",
	},
	FieldStatus: {
		required: "Status is required",
		generic:  "Please select a valid shipment status",
	},
}

// formatKeys are the per-category shape failures; each category has at most
// one of these attached, so a single message slot covers them.
var formatKeys = []Key{KeyTrackingIDFormat, KeyFutureDate, KeyEmail, KeyPasswordLength}

// Message resolves a field's failure set to exactly one user-facing string.
// Priority is fixed regardless of how rules were attached:
// required > format > minlength > maxlength > charset > generic.
// Unknown keys never produce an error; they fall through to the generic
// message for the category.
func Message(field Field, failures Failures) string {
	table, ok := messageTables[field]
	if !ok {
		table = messageTable{generic: "Invalid " + string(field)}
	}

	if failures.Has(KeyRequired) && table.required != "" {
		return table.required
	}
	if table.format != "" {
		for _, key := range formatKeys {
			if failures.Has(key) {
				return table.format
			}
		}
	}
	if failures.Has(KeyMinLength) && table.minLength != "" {
		return table.minLength
	}
	if failures.Has(KeyMaxLength) && table.maxLength != "" {
		return table.maxLength
	}
	if failures.Has(KeyLettersSpacesHyphens) && table.charset != "" {
		return table.charset
	}
	if table.generic != "" {
		return table.generic
	}
	return "Invalid " + string(field)
}
