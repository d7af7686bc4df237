package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/auth"
	"github.com/dayplan-app/dayplan-backend/pkg/communication"
	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/dayplan-app/dayplan-backend/pkg/locking"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/dayplan-app/dayplan-backend/pkg/users"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const planLockTTL = time.Second * 30

// Handler handles all task, rule and plan related API calls
type Handler struct {
	TaskRepository  TaskRepositoryInterface
	RuleRepository  RuleRepositoryInterface
	UserRepository  users.UserRepositoryInterface
	PlanCache       PlanCacheInterface
	Locker          locking.LockerInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

func (handler *Handler) engineFor(user *users.User) (*Engine, error) {
	scheduling := user.Settings.Scheduling

	location, err := time.LoadLocation(scheduling.TimeZone)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig(location)
	if scheduling.DayWindow.Duration() > 0 {
		config.Window = scheduling.DayWindow
	}
	if scheduling.SlotWidth > 0 {
		config.SlotWidth = scheduling.SlotWidth
	}

	return NewEngine(config, handler.Logger), nil
}

// TaskAdd is the route for adding a task
func (handler *Handler) TaskAdd(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	task := Task{}
	err := json.NewDecoder(request.Body).Decode(&task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	task.UserID, err = primitive.ObjectIDFromHex(userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Invalid user id", err)
		return
	}

	v := validator.New()
	err = v.Struct(task)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = handler.TaskRepository.Add(request.Context(), &task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Persisting task failed", err)
		return
	}

	handler.invalidatePlans(request.Context(), userID, task.Deadline)

	handler.ResponseManager.Respond(writer, task)
}

// TaskGetAll is the route for getting all tasks of a user
func (handler *Handler) TaskGetAll(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	tasks, err := handler.TaskRepository.FindAll(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Problem getting tasks", err)
		return
	}

	if tasks == nil {
		tasks = []Task{}
	}

	handler.ResponseManager.Respond(writer, tasks)
}

// TaskGet is the route for getting a single task
func (handler *Handler) TaskGet(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	taskID := mux.Vars(request)["taskID"]

	task, err := handler.TaskRepository.FindByID(request.Context(), taskID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find task %s", taskID), err)
		return
	}

	handler.ResponseManager.Respond(writer, task)
}

// TaskUpdate is the route for changing a task
func (handler *Handler) TaskUpdate(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	taskID := mux.Vars(request)["taskID"]

	task, err := handler.TaskRepository.FindByID(request.Context(), taskID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find task %s", taskID), err)
		return
	}

	update := TaskUpdate{
		Name:        task.Name,
		Description: task.Description,
		Duration:    task.Duration,
		Deadline:    task.Deadline,
		Priority:    task.Priority,
		Category:    task.Category,
		Done:        task.Done,
	}

	err = json.NewDecoder(request.Body).Decode(&update)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(update)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	task.Name = update.Name
	task.Description = update.Description
	task.Duration = update.Duration
	task.Deadline = update.Deadline
	task.Priority = update.Priority
	task.Category = update.Category
	task.Done = update.Done

	err = handler.TaskRepository.Update(request.Context(), task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not update task", err)
		return
	}

	handler.invalidatePlans(request.Context(), userID, task.Deadline)

	handler.ResponseManager.Respond(writer, task)
}

// TaskDelete is the route for deleting a task
func (handler *Handler) TaskDelete(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	taskID := mux.Vars(request)["taskID"]

	err := handler.TaskRepository.Delete(request.Context(), taskID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not delete task %s", taskID), err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// RuleAdd is the route for adding an unavailability rule
func (handler *Handler) RuleAdd(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	rule := UnavailabilityRule{}
	err := json.NewDecoder(request.Body).Decode(&rule)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	rule.UserID, err = primitive.ObjectIDFromHex(userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Invalid user id", err)
		return
	}
	rule.SuppressedOn = nil

	if err := rule.Validate(); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, err.Error(), err)
		return
	}

	err = handler.RuleRepository.Add(request.Context(), &rule)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Persisting rule failed", err)
		return
	}

	handler.ResponseManager.Respond(writer, rule)
}

// RuleGetAll is the route for getting all rules of a user
func (handler *Handler) RuleGetAll(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	rules, err := handler.RuleRepository.FindAll(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Problem getting rules", err)
		return
	}

	if rules == nil {
		rules = []*UnavailabilityRule{}
	}

	handler.ResponseManager.Respond(writer, rules)
}

// RuleUpdate is the route for changing a rule
func (handler *Handler) RuleUpdate(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	ruleID := mux.Vars(request)["ruleID"]

	rule, err := handler.RuleRepository.FindByID(request.Context(), ruleID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find rule %s", ruleID), err)
		return
	}

	err = json.NewDecoder(request.Body).Decode(rule)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if err := rule.Validate(); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, err.Error(), err)
		return
	}

	err = handler.RuleRepository.Update(request.Context(), rule)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not update rule", err)
		return
	}

	handler.ResponseManager.Respond(writer, rule)
}

// RuleDelete is the route for deleting a rule permanently
func (handler *Handler) RuleDelete(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	ruleID := mux.Vars(request)["ruleID"]

	err := handler.RuleRepository.Delete(request.Context(), ruleID, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not delete rule %s", ruleID), err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// PlanGet is the route for getting the plan of a day, generating it on a cache miss
func (handler *Handler) PlanGet(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	dateKey := mux.Vars(request)["date"]

	handler.withDay(writer, request, userID, dateKey, false,
		func(ctx context.Context, engine *Engine, day time.Time, plan *DayPlan, tasks []Task, rules []*UnavailabilityRule) (*DayPlan, int) {
			if plan != nil {
				return plan, http.StatusOK
			}

			generated := engine.Generate(mustObjectID(userID), day, tasks, rules)
			handler.annotateScheduledStarts(ctx, userID, &generated)
			return &generated, http.StatusOK
		})
}

// PlanRegenerate is the route for rebuilding the plan of a day from scratch
func (handler *Handler) PlanRegenerate(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	dateKey := mux.Vars(request)["date"]

	handler.withDay(writer, request, userID, dateKey, true,
		func(ctx context.Context, engine *Engine, day time.Time, _ *DayPlan, tasks []Task, rules []*UnavailabilityRule) (*DayPlan, int) {
			generated := engine.Generate(mustObjectID(userID), day, tasks, rules)
			handler.annotateScheduledStarts(ctx, userID, &generated)
			return &generated, http.StatusOK
		})
}

// PlanBlockMove is the route for moving a task block to a new start time
func (handler *Handler) PlanBlockMove(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	vars := mux.Vars(request)
	dateKey := vars["date"]

	blockID, err := primitive.ObjectIDFromHex(vars["blockID"])
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Invalid block id", err)
		return
	}

	body := struct {
		NewStart time.Time `json:"newStart" validate:"required"`
	}{}
	err = json.NewDecoder(request.Body).Decode(&body)
	if err != nil || body.NewStart.IsZero() {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	handler.withDay(writer, request, userID, dateKey, false,
		func(ctx context.Context, engine *Engine, day time.Time, plan *DayPlan, tasks []Task, rules []*UnavailabilityRule) (*DayPlan, int) {
			if plan == nil {
				generated := engine.Generate(mustObjectID(userID), day, tasks, rules)
				plan = &generated
			}

			moved, ok := engine.Reschedule(*plan, blockID, body.NewStart, tasks)
			if !ok {
				// conflicting or unknown moves leave the plan untouched
				return plan, http.StatusConflict
			}

			return &moved, http.StatusOK
		})
}

// PlanBlockDelete is the route for removing a block from a day's plan
func (handler *Handler) PlanBlockDelete(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	vars := mux.Vars(request)
	dateKey := vars["date"]

	blockID, err := primitive.ObjectIDFromHex(vars["blockID"])
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Invalid block id", err)
		return
	}

	handler.withDay(writer, request, userID, dateKey, false,
		func(ctx context.Context, engine *Engine, day time.Time, plan *DayPlan, tasks []Task, rules []*UnavailabilityRule) (*DayPlan, int) {
			if plan == nil {
				generated := engine.Generate(mustObjectID(userID), day, tasks, rules)
				plan = &generated
			}

			edited, effect, err := engine.DeleteBlock(*plan, blockID, tasks, rules)
			if err != nil {
				handler.Logger.Info(fmt.Sprintf("Block %s could not be deleted: %s", blockID.Hex(), err))
				return plan, http.StatusNotFound
			}

			if !effect.SuppressRuleID.IsZero() {
				err = handler.RuleRepository.Suppress(ctx, effect.SuppressRuleID.Hex(), userID, dateKey)
				if err != nil {
					handler.Logger.Error("Problem suppressing rule", err)
					return plan, http.StatusInternalServerError
				}
			}

			if !effect.DeleteRuleID.IsZero() {
				err = handler.RuleRepository.Delete(ctx, effect.DeleteRuleID.Hex(), userID)
				if err != nil {
					handler.Logger.Error("Problem deleting rule", err)
					return plan, http.StatusInternalServerError
				}
			}

			return &edited, http.StatusOK
		})
}

// PlanAddUnavailable is the route for blocking an ad-hoc period of a day
func (handler *Handler) PlanAddUnavailable(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	dateKey := mux.Vars(request)["date"]

	body := struct {
		Span        date.Timespan `json:"span"`
		Title       string        `json:"title"`
		Description string        `json:"description"`
	}{}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if body.Title == "" {
		body.Title = "Unavailable"
	}

	rule := &UnavailabilityRule{
		UserID:      mustObjectID(userID),
		Name:        body.Title,
		Description: body.Description,
		Span:        body.Span,
	}

	if err := rule.Validate(); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, err.Error(), err)
		return
	}

	handler.withDay(writer, request, userID, dateKey, false,
		func(ctx context.Context, engine *Engine, day time.Time, plan *DayPlan, tasks []Task, rules []*UnavailabilityRule) (*DayPlan, int) {
			// persist first so a regeneration inside AddUnavailable sees the rule
			err := handler.RuleRepository.Add(ctx, rule)
			if err != nil {
				handler.Logger.Error("Problem persisting ad-hoc rule", err)
				return plan, http.StatusInternalServerError
			}

			if plan == nil {
				generated := engine.Generate(mustObjectID(userID), day, tasks, append(rules, rule))
				return &generated, http.StatusOK
			}

			edited, err := engine.AddUnavailable(*plan, rule, tasks, rules)
			if err != nil {
				handler.Logger.Info(fmt.Sprintf("Ad-hoc rule rejected: %s", err))
				return plan, http.StatusBadRequest
			}

			return &edited, http.StatusOK
		})
}

// withDay serializes an operation on a day's plan. It locks the user's day,
// loads the user, tasks and rules, hands the cached plan (nil on a miss or
// when fresh is set) to op and caches whatever plan op returns.
func (handler *Handler) withDay(writer http.ResponseWriter, request *http.Request, userID string, dateKey string, fresh bool,
	op func(ctx context.Context, engine *Engine, day time.Time, plan *DayPlan, tasks []Task, rules []*UnavailabilityRule) (*DayPlan, int)) {
	ctx := request.Context()

	user, err := handler.UserRepository.FindByID(ctx, userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "User wasn't found", err)
		return
	}

	engine, err := handler.engineFor(user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Invalid scheduling settings", err)
		return
	}

	day, err := time.ParseInLocation("2006-01-02", dateKey, engine.Config.Location)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Date %s is invalid, expected 2006-01-02", dateKey), err)
		return
	}

	lock, err := handler.Locker.Acquire(ctx, fmt.Sprintf("plan-%s-%s", userID, dateKey), planLockTTL, false)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusConflict, "The plan is being modified", err)
		return
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			handler.Logger.Error(fmt.Sprintf("Problem releasing lock %s", lock.Key()), err)
		}
	}()

	var tasks []Task
	var rules []*UnavailabilityRule

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		tasks, err = handler.TaskRepository.FindAll(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		rules, err = handler.RuleRepository.FindAll(groupCtx, userID)
		return err
	})

	err = group.Wait()
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Problem loading planning data", err)
		return
	}

	var plan *DayPlan
	if !fresh {
		cached, err := handler.PlanCache.Get(ctx, PlanCacheKey(userID, dateKey))
		if err == nil {
			plan = cached
		}
	}

	result, status := op(ctx, engine, day, plan, tasks, rules)
	if result == nil || status >= http.StatusInternalServerError {
		handler.ResponseManager.RespondWithError(writer, status, "Problem modifying the plan", nil)
		return
	}

	err = handler.PlanCache.Add(ctx, PlanCacheKey(userID, dateKey), result)
	if err != nil {
		handler.Logger.Warning("Problem caching the plan", err)
	}

	handler.ResponseManager.RespondWithStatus(writer, result, status)
}

// annotateScheduledStarts mirrors the placed block starts onto the tasks
func (handler *Handler) annotateScheduledStarts(ctx context.Context, userID string, plan *DayPlan) {
	for _, block := range plan.Blocks {
		if block.Kind != BlockTask {
			continue
		}

		start := block.Date.Start
		err := handler.TaskRepository.SetScheduledStart(ctx, block.TaskID.Hex(), userID, &start)
		if err != nil {
			handler.Logger.Warning(fmt.Sprintf("Problem annotating task %s", block.TaskID.Hex()), err)
		}
	}

	for _, problem := range plan.Unplaced {
		err := handler.TaskRepository.SetScheduledStart(ctx, problem.TaskID.Hex(), userID, nil)
		if err != nil {
			handler.Logger.Warning(fmt.Sprintf("Problem annotating task %s", problem.TaskID.Hex()), err)
		}
	}
}

// invalidatePlans drops the cached plan of the deadline's day so the next
// fetch regenerates with the changed task set
func (handler *Handler) invalidatePlans(ctx context.Context, userID string, deadline time.Time) {
	dateKey := deadline.Format("2006-01-02")
	err := handler.PlanCache.Invalidate(ctx, PlanCacheKey(userID, dateKey))
	if err != nil {
		handler.Logger.Warning("Problem invalidating plan cache", err)
	}

	today := time.Now().Format("2006-01-02")
	if today != dateKey {
		err = handler.PlanCache.Invalidate(ctx, PlanCacheKey(userID, today))
		if err != nil {
			handler.Logger.Warning("Problem invalidating plan cache", err)
		}
	}
}

// mustObjectID parses an ID that already passed token verification
func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(fmt.Sprintf("invalid object id %s: %s", hex, err))
	}
	return id
}
