// Package model contains domain models passed between layers.
package model

// Column names expected by the performance model. They must match the
// feature names the model was fitted with.
const (
	ColumnTasksCompleted     = "Tasks Completed"
	ColumnTaskCompletionRate = "Task Completion Rate (%)"
	ColumnAttendanceRate     = "Attendance Rate (%)"
	ColumnLeavesTaken        = "Leaves Taken"
	ColumnTrainingHours      = "Training Hours"
)

// MaxRate is the upper bound for the percentage fields.
const MaxRate = 100

// Field identifies one input of the prediction form.
type Field int

// Fields in form order.
const (
	TasksCompleted Field = iota
	TaskCompletionRate
	AttendanceRate
	LeavesTaken
	TrainingHours
)

// Fields lists every input in the order it appears on the form.
var Fields = []Field{TasksCompleted, TaskCompletionRate, AttendanceRate, LeavesTaken, TrainingHours}

type fieldInfo struct {
	column string
	label  string
	key    string
	max    int // 0 means unbounded
}

var fieldInfos = map[Field]fieldInfo{
	TasksCompleted:     {column: ColumnTasksCompleted, label: "Tasks Completed", key: "tasks_completed"},
	TaskCompletionRate: {column: ColumnTaskCompletionRate, label: "Task Completion Rate", key: "task_completion_rate", max: MaxRate},
	AttendanceRate:     {column: ColumnAttendanceRate, label: "Attendance Rate", key: "attendance_rate", max: MaxRate},
	LeavesTaken:        {column: ColumnLeavesTaken, label: "Leaves Taken", key: "leaves_taken"},
	TrainingHours:      {column: ColumnTrainingHours, label: "Training Hours", key: "training_hours"},
}

// Column returns the model column name for the field.
func (f Field) Column() string { return fieldInfos[f].column }

// Label returns the human readable name used in user messages.
func (f Field) Label() string { return fieldInfos[f].label }

// Key returns the form and JSON key for the field.
func (f Field) Key() string { return fieldInfos[f].key }

// Max returns the inclusive upper bound of the field, or 0 when unbounded.
func (f Field) Max() int { return fieldInfos[f].max }

func (f Field) String() string {
	if info, ok := fieldInfos[f]; ok {
		return info.key
	}
	return "unknown"
}

// Record is a single row of employee metrics scored by the model.
// Records are comparable and may be used as map keys.
type Record struct {
	TasksCompleted     int `json:"tasks_completed"`
	TaskCompletionRate int `json:"task_completion_rate"`
	AttendanceRate     int `json:"attendance_rate"`
	LeavesTaken        int `json:"leaves_taken"`
	TrainingHours      int `json:"training_hours"`
}

// Get returns the value of a field.
func (r Record) Get(f Field) int {
	switch f {
	case TasksCompleted:
		return r.TasksCompleted
	case TaskCompletionRate:
		return r.TaskCompletionRate
	case AttendanceRate:
		return r.AttendanceRate
	case LeavesTaken:
		return r.LeavesTaken
	case TrainingHours:
		return r.TrainingHours
	default:
		return 0
	}
}

// Set returns a copy of r with field f set to v.
func (r Record) Set(f Field, v int) Record {
	switch f {
	case TasksCompleted:
		r.TasksCompleted = v
	case TaskCompletionRate:
		r.TaskCompletionRate = v
	case AttendanceRate:
		r.AttendanceRate = v
	case LeavesTaken:
		r.LeavesTaken = v
	case TrainingHours:
		r.TrainingHours = v
	}
	return r
}

// Columns returns the column names in form order.
func (r Record) Columns() []string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.Column()
	}
	return cols
}

// Values returns the row values aligned with Columns.
func (r Record) Values() []float64 {
	vals := make([]float64, len(Fields))
	for i, f := range Fields {
		vals[i] = float64(r.Get(f))
	}
	return vals
}

// Row returns the record keyed by column name.
func (r Record) Row() map[string]float64 {
	row := make(map[string]float64, len(Fields))
	for _, f := range Fields {
		row[f.Column()] = float64(r.Get(f))
	}
	return row
}
