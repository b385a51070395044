package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldFile      = "file"
	FieldRecords   = "records"
	FieldDropped   = "dropped"
	FieldCenters   = "centers"
	FieldMeasure   = "measure"
	FieldQuarter   = "quarter"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldPeriod    = "period"
	FieldStatus    = "status"
	FieldMissing   = "missing"
	FieldTarget    = "target"
	FieldTab       = "tab"
	FieldRow       = "row"
	FieldOutput    = "output"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentIngest     = "ingest"
	ComponentReport     = "report"
	ComponentConversion = "conversion"
	ComponentExport     = "export"
	ComponentSync       = "sync"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentSheets     = "sheets"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpIngest    = "ingest"
	OpReconcile = "reconcile"
	OpAggregate = "aggregate"
	OpExport    = "export"
	OpSync      = "sync"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
}

// WithError adds the error message when err is not nil.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithQuarter adds the quarter label, year and measure.
func (f LogFields) WithQuarter(label string, year int, measure string) LogFields {
	f[FieldQuarter] = label
	f[FieldYear] = year
	f[FieldMeasure] = measure
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
