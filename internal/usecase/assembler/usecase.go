// Package assembler builds one complete task record from a seed.
package assembler

import (
	"context"
	"fmt"
	"math/rand"

	"dotgen/internal/application/port/input"
	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
	"dotgen/internal/usecase/compositor"
)

var _ input.TaskGenerator = (*UseCase)(nil)

type Planner interface {
	Plan(rng *rand.Rand) (entity.Plan, error)
}

type Config struct {
	Domain string
	// Video is nil when solution videos are disabled.
	Video  output.VideoEncoderPort
	Timing entity.Timing
}

type UseCase struct {
	planner    Planner
	renderer   output.FrameRendererPort
	compositor *compositor.Compositor
	prompts    output.PromptPort
	logger     output.LoggerPort
	cfg        Config
}

func New(
	planner Planner,
	renderer output.FrameRendererPort,
	prompts output.PromptPort,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	return &UseCase{
		planner:    planner,
		renderer:   renderer,
		compositor: compositor.New(renderer),
		prompts:    prompts,
		logger:     logger,
		cfg:        cfg,
	}
}

func TaskID(domain string, index int) string {
	return fmt.Sprintf("%s_%04d", domain, index)
}

// Generate runs the whole pipeline for one task. Every random draw comes
// from req.Seed. On error nothing is returned; callers decide whether to
// retry with another seed.
func (uc *UseCase) Generate(ctx context.Context, req entity.TaskRequest) (*entity.TaskRecord, error) {
	id := TaskID(uc.cfg.Domain, req.Index)
	log := uc.logger.WithFields(map[string]any{"task_id": id, "seed": req.Seed})
	rng := rand.New(rand.NewSource(req.Seed))

	plan, err := uc.planner.Plan(rng)
	if err != nil {
		return nil, entity.WithTaskID(err, id)
	}
	log.Debug("Plan ready", "type", plan.Type, "order", plan.Order.String())

	initial, err := uc.renderer.Render(plan, output.FrameSpec{Prefix: 0})
	if err != nil {
		return nil, entity.WithTaskID(err, id)
	}
	final, err := uc.renderer.Render(plan, output.FrameSpec{Prefix: plan.SegmentCount()})
	if err != nil {
		return nil, entity.WithTaskID(err, id)
	}

	style := uc.renderer.Style()
	prompt, err := uc.prompts.Select(rng, entity.PromptData{
		NumDots:   len(plan.Points),
		Type:      plan.Type,
		DotColor:  style.DotColor,
		LineColor: style.LineColor,
		Labels:    style.PathLabels(plan.Order),
	})
	if err != nil {
		return nil, entity.WithTaskID(err, id)
	}

	params := entity.TaskRecordParams{
		ID:      id,
		Domain:  uc.cfg.Domain,
		Seed:    req.Seed,
		Plan:    plan,
		Prompt:  prompt,
		Initial: initial,
		Final:   final,
	}

	if uc.cfg.Video != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keys, err := uc.compositor.Keyframes(plan)
		if err != nil {
			return nil, entity.WithTaskID(err, id)
		}
		frames, err := uc.compositor.Expand(plan, keys, uc.cfg.Timing)
		if err != nil {
			return nil, entity.WithTaskID(err, id)
		}
		video, err := uc.cfg.Video.Encode(ctx, frames, uc.cfg.Timing.FPS)
		if err != nil {
			return nil, entity.WithTaskID(err, id)
		}
		params.Frames = keys
		params.Video = video
		log.Debug("Video encoded", "frames", video.FrameCount, "bytes", len(video.Data), "format", video.Ext)
	}

	return entity.NewTaskRecord(params), nil
}
