// Package server exposes the projection engine and milestone tracker as a small JSON API for
// chart and UI clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/goalfund/internal/breakeven"
	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/config"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

const maxRequestBodySize = 1 << 20

// ProjectionRequest asks for the plan of one catalog goal.
type ProjectionRequest struct {
	GoalID        string          `json:"goalId" validate:"required"`
	Mode          domain.ModeKind `json:"mode" validate:"required,oneof=fixed_date fixed_payment"`
	TargetDate    string          `json:"targetDate" validate:"required_if=Mode fixed_date"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	Selected      string          `json:"selected,omitempty"`
	Hidden        []string        `json:"hidden,omitempty"`
	MaxPoints     int             `json:"maxPoints,omitempty" validate:"gte=0,lte=500"`
}

// RequiredRateRequest asks which annual return a monthly budget needs to fund a catalog goal.
type RequiredRateRequest struct {
	GoalID  string          `json:"goalId" validate:"required"`
	Monthly decimal.Decimal `json:"monthly"`
	Months  int             `json:"months" validate:"gt=0,lte=1200"`
}

// EvaluateRequest folds deposits into a committed goal and re-evaluates its milestones.
type EvaluateRequest struct {
	Goal     domain.UserGoal       `json:"goal"`
	Deposits []domain.DepositEvent `json:"deposits,omitempty" validate:"dive"`
}

// EvaluateResponse is the updated goal plus the transitions that happened in this call.
type EvaluateResponse struct {
	Goal     domain.UserGoal    `json:"goal"`
	Events   []milestone.Event  `json:"events"`
	Progress milestone.Progress `json:"progress"`
	// Skipped lists deposit ids that had already been applied.
	Skipped []string `json:"skipped,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Server routes requests to the engine. It holds no per-request state.
type Server struct {
	Catalog *domain.Catalog
	Engine  *calculation.CalculationEngine
	Tracker *milestone.Tracker
	Logger  logging.Logger
	Now     func() time.Time

	validate *validator.Validate
}

// New creates a server over a loaded catalog and engine.
func New(catalog *domain.Catalog, engine *calculation.CalculationEngine, logger logging.Logger) *Server {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	logger = logging.OrNop(logger)
	return &Server{
		Catalog:  catalog,
		Engine:   engine,
		Tracker:  milestone.NewTracker(logger),
		Logger:   logger,
		Now:      time.Now,
		validate: v,
	}
}

// Handler returns the request router.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		path := string(ctx.Path())
		defer func() {
			if r := recover(); r != nil {
				s.Logger.Errorf("%s %s panicked: %v", ctx.Method(), path, r)
				writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
			}
			s.Logger.Debugf("%s %s -> %d in %s", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
		}()

		switch path {
		case "/profiles":
			s.only(ctx, fasthttp.MethodGet, s.handleProfiles)
		case "/goals":
			s.only(ctx, fasthttp.MethodGet, s.handleGoals)
		case "/projections":
			s.only(ctx, fasthttp.MethodPost, s.handleProjections)
		case "/required-rate":
			s.only(ctx, fasthttp.MethodPost, s.handleRequiredRate)
		case "/milestones/evaluate":
			s.only(ctx, fasthttp.MethodPost, s.handleEvaluate)
		case "/healthz":
			ctx.SetStatusCode(fasthttp.StatusNoContent)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "no route for "+path)
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "goalfund",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: maxRequestBodySize,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.Logger.Infof("serving goal projections on %s", ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func (s *Server) only(ctx *fasthttp.RequestCtx, method string, h fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h(ctx)
}

func (s *Server) handleProfiles(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, s.Engine.Profiles.All())
}

func (s *Server) handleGoals(ctx *fasthttp.RequestCtx) {
	goals := s.Catalog.Goals
	if goals == nil {
		goals = []domain.Goal{}
	}
	writeJSON(ctx, fasthttp.StatusOK, goals)
}

func (s *Server) handleProjections(ctx *fasthttp.RequestCtx) {
	var req ProjectionRequest
	if !s.decode(ctx, &req) {
		return
	}

	goal, ok := s.Catalog.FindGoal(req.GoalID)
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("%s: %q", domain.ErrUnknownGoal, req.GoalID))
		return
	}

	mode, err := req.mode()
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	opts := calculation.TrajectoryOptions{Selected: req.Selected, MaxPoints: req.MaxPoints}
	if len(req.Hidden) > 0 {
		opts.Hidden = make(map[string]bool, len(req.Hidden))
		for _, name := range req.Hidden {
			opts.Hidden[name] = true
		}
	}

	plan, err := s.Engine.Plan(goal, mode, s.Now(), opts)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, plan)
}

func (s *Server) handleRequiredRate(ctx *fasthttp.RequestCtx) {
	var req RequiredRateRequest
	if !s.decode(ctx, &req) {
		return
	}

	goal, ok := s.Catalog.FindGoal(req.GoalID)
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("%s: %q", domain.ErrUnknownGoal, req.GoalID))
		return
	}

	result, err := breakeven.NewDefaultSolver(s.Engine.Profiles).Solve(context.Background(), breakeven.Request{
		GoalID:  goal.ID,
		Target:  goal.FinalPrice,
		Monthly: req.Monthly,
		Months:  req.Months,
	})
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func (s *Server) handleEvaluate(ctx *fasthttp.RequestCtx) {
	var req EvaluateRequest
	if !s.decode(ctx, &req) {
		return
	}
	if req.Goal.ID == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "goal.id is required")
		return
	}

	goal := req.Goal
	resp := EvaluateResponse{Events: []milestone.Event{}}
	for _, dep := range req.Deposits {
		next, events, err := s.Tracker.ApplyDeposit(goal, dep)
		switch {
		case errors.Is(err, domain.ErrDuplicateEvent):
			resp.Skipped = append(resp.Skipped, dep.ID)
			continue
		case err != nil:
			writeDomainError(ctx, err)
			return
		}
		goal = next
		resp.Events = append(resp.Events, events...)
	}

	goal, events := s.Tracker.Evaluate(goal, s.Now())
	resp.Events = append(resp.Events, events...)
	resp.Goal = goal
	resp.Progress = milestone.Summarize(goal)
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, config.FlattenValidation(err).Error())
		return false
	}
	return true
}

func (r ProjectionRequest) mode() (domain.ProjectionMode, error) {
	if r.Mode == domain.ModeFixedPayment {
		return domain.FixedPayment(r.MonthlyAmount), nil
	}
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, r.TargetDate); err == nil {
			return domain.FixedDate(t), nil
		}
	}
	return domain.ProjectionMode{}, fmt.Errorf("targetDate %q must be YYYY-MM or YYYY-MM-DD", r.TargetDate)
}

func writeDomainError(ctx *fasthttp.RequestCtx, err error) {
	var pe *domain.PlanError
	if errors.As(err, &pe) {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encoding response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}
