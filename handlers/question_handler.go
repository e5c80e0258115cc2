package handlers

import (
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/anjiri1684/quiz_platform/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handler) CreateQuestion(c *fiber.Ctx) error {
	var req services.QuestionInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := h.Questions.CreateQuestion(c.UserContext(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, q)
}

func (h *Handler) ListQuestions(c *fiber.Ctx) error {
	query := services.QuestionQuery{
		Page:  utils.AtoiDefault(c.Query("page"), 1),
		Limit: utils.AtoiDefault(c.Query("limit"), 10),
	}
	var err error
	if query.CategoryID, err = optionalUint(c, "category_id"); err != nil {
		return err
	}
	if query.DifficultyLevelID, err = optionalUint(c, "difficulty_level_id"); err != nil {
		return err
	}
	if query.Active, err = optionalBool(c, "active"); err != nil {
		return err
	}
	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return &services.Error{Kind: services.KindValidation, Message: "invalid author_id"}
		}
		query.AuthorID = &id
	}

	page, err := h.Questions.ListQuestions(c.UserContext(), middleware.CurrentPrincipal(c), query)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

func (h *Handler) GetQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "questionId")
	if err != nil {
		return err
	}
	q, err := h.Questions.GetQuestion(c.UserContext(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, q)
}

func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "questionId")
	if err != nil {
		return err
	}
	var req services.QuestionInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := h.Questions.UpdateQuestion(c.UserContext(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, q)
}

func (h *Handler) SetQuestionActive(c *fiber.Ctx) error {
	id, err := idParam(c, "questionId")
	if err != nil {
		return err
	}
	var req activeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.IsActive == nil {
		return &services.Error{Kind: services.KindValidation, Message: "is_active is required"}
	}
	q, err := h.Questions.SetQuestionActive(c.UserContext(), middleware.CurrentPrincipal(c), id, *req.IsActive)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, q)
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "questionId")
	if err != nil {
		return err
	}
	if err := h.Questions.DeleteQuestion(c.UserContext(), middleware.CurrentPrincipal(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.Questions.ListCategories(c.UserContext(), c.Query("all") != "true")
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req services.ReferenceInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.Questions.CreateCategory(c.UserContext(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uintParam(c, "categoryId")
	if err != nil {
		return err
	}
	var req services.ReferenceInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.Questions.UpdateCategory(c.UserContext(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, category)
}

func (h *Handler) ListDifficultyLevels(c *fiber.Ctx) error {
	levels, err := h.Questions.ListDifficultyLevels(c.UserContext(), c.Query("all") != "true")
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, levels)
}

func (h *Handler) CreateDifficultyLevel(c *fiber.Ctx) error {
	var req services.ReferenceInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	level, err := h.Questions.CreateDifficultyLevel(c.UserContext(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, level)
}

func (h *Handler) UpdateDifficultyLevel(c *fiber.Ctx) error {
	id, err := uintParam(c, "levelId")
	if err != nil {
		return err
	}
	var req services.ReferenceInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	level, err := h.Questions.UpdateDifficultyLevel(c.UserContext(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, level)
}
