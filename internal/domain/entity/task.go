package entity

import "image"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// Video is an encoded solution video.
type Video struct {
	Ext        string
	Data       []byte
	FrameCount int
}

// TaskRecord is one generated puzzle. Accessors return copies so a record
// cannot be changed after assembly.
type TaskRecord struct {
	id     string
	domain string
	seed   int64
	plan   Plan
	prompt string

	initial image.Image
	final   image.Image
	frames  []image.Image
	video   *Video
}

type TaskRecordParams struct {
	ID      string
	Domain  string
	Seed    int64
	Plan    Plan
	Prompt  string
	Initial image.Image
	Final   image.Image
	Frames  []image.Image
	Video   *Video
}

func NewTaskRecord(p TaskRecordParams) *TaskRecord {
	r := &TaskRecord{
		id:      p.ID,
		domain:  p.Domain,
		seed:    p.Seed,
		plan:    p.Plan.Clone(),
		prompt:  p.Prompt,
		initial: p.Initial,
		final:   p.Final,
		frames:  append([]image.Image(nil), p.Frames...),
	}
	if p.Video != nil {
		v := *p.Video
		v.Data = append([]byte(nil), p.Video.Data...)
		r.video = &v
	}
	return r
}

func (r *TaskRecord) ID() string     { return r.id }
func (r *TaskRecord) Domain() string { return r.domain }
func (r *TaskRecord) Seed() int64    { return r.seed }
func (r *TaskRecord) Plan() Plan     { return r.plan.Clone() }
func (r *TaskRecord) Prompt() string { return r.prompt }

func (r *TaskRecord) Initial() image.Image { return r.initial }
func (r *TaskRecord) Final() image.Image   { return r.final }

func (r *TaskRecord) Frames() []image.Image {
	return append([]image.Image(nil), r.frames...)
}

func (r *TaskRecord) Video() (Video, bool) {
	if r.video == nil {
		return Video{}, false
	}
	v := *r.video
	v.Data = append([]byte(nil), r.video.Data...)
	return v, true
}

type TaskResult struct {
	TaskID  string     `json:"task_id"`
	Status  TaskStatus `json:"status"`
	Attempt int        `json:"attempt"`
	Error   string     `json:"error,omitempty"`
}
