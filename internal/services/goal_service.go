package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// goalService handles savings-goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new savings goal. Goals always start active with a
// zero accumulated amount.
func (s *goalService) CreateGoal(userID string, input GoalInput) (*models.Goal, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if input.StartDate.IsZero() {
		input.StartDate = time.Now()
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          input.Name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    input.TargetDate,
		StartDate:     input.StartDate,
		Icon:          input.Icon,
		Color:         input.Color,
		Status:        models.GoalStatusActive,
		Description:   input.Description,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals retrieves a paginated list of goals, optionally filtered by
// status.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal changes a goal's descriptive fields. The accumulated amount and
// status only move through Contribute, CompleteGoal and CancelGoal.
func (s *goalService) UpdateGoal(userID, goalID string, input GoalInput) (*models.Goal, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":          input.Name,
		"target_amount": input.TargetAmount,
		"target_date":   input.TargetDate,
		"icon":          input.Icon,
		"color":         input.Color,
		"description":   input.Description,
	}
	if !input.StartDate.IsZero() {
		updates["start_date"] = input.StartDate
	}

	if err := s.db.Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// DeleteGoal permanently removes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute adds an amount toward an active goal. Contributions may not push
// the accumulated amount past the target; a contribution that lands exactly on
// the target flips the goal to completed in the same update.
func (s *goalService) Contribute(userID, goalID string, amount decimal.Decimal) (*models.Goal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status != models.GoalStatusActive {
		return nil, apperrors.ErrGoalNotActive
	}
	if amount.GreaterThan(goal.Remaining()) {
		return nil, apperrors.ErrContributionTooLarge
	}

	newAmount := goal.CurrentAmount.Add(amount)
	updates := map[string]interface{}{
		"current_amount": newAmount,
	}
	if newAmount.GreaterThanOrEqual(goal.TargetAmount) {
		updates["status"] = models.GoalStatusCompleted
	}

	if err := s.db.Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	goal.CurrentAmount = newAmount
	if newAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = models.GoalStatusCompleted
	}
	return goal, nil
}

// CompleteGoal marks an active goal as completed, regardless of the
// accumulated amount. Completed and cancelled are terminal states.
func (s *goalService) CompleteGoal(userID, goalID string) (*models.Goal, error) {
	return s.transition(userID, goalID, models.GoalStatusCompleted)
}

// CancelGoal marks an active goal as cancelled.
func (s *goalService) CancelGoal(userID, goalID string) (*models.Goal, error) {
	return s.transition(userID, goalID, models.GoalStatusCancelled)
}

func (s *goalService) transition(userID, goalID string, to models.GoalStatus) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status != models.GoalStatusActive {
		return nil, apperrors.ErrGoalNotActive
	}

	if err := s.db.Model(goal).Update("status", to).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	goal.Status = to
	return goal, nil
}
