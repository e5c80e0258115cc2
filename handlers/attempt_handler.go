package handlers

import (
	"fmt"

	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/reports"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/anjiri1684/quiz_platform/utils"
	"github.com/gofiber/fiber/v2"
)

type answersRequest struct {
	Answers []services.AnswerInput `json:"answers"`
}

func (h *Handler) StartAttempt(c *fiber.Ctx) error {
	var req services.StartInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	started, err := h.Attempts.Start(c.UserContext(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, started)
}

func (h *Handler) GetAttempt(c *fiber.Ctx) error {
	id, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	a, err := h.Attempts.GetAttempt(c.UserContext(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, a)
}

func (h *Handler) ListStudentAttempts(c *fiber.Ctx) error {
	studentID, err := idParam(c, "studentId")
	if err != nil {
		return err
	}
	page, err := h.Attempts.ListStudentAttempts(c.UserContext(), middleware.CurrentPrincipal(c), studentID,
		utils.AtoiDefault(c.Query("page"), 1), utils.AtoiDefault(c.Query("limit"), 10))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

func (h *Handler) RecordAnswers(c *fiber.Ctx) error {
	id, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	var req answersRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.Attempts.RecordAnswers(c.UserContext(), middleware.CurrentPrincipal(c), id, req.Answers)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, res)
}

func (h *Handler) SubmitAttempt(c *fiber.Ctx) error {
	id, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	var req services.SubmitInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	res, err := h.Attempts.Submit(c.UserContext(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, res)
}

func (h *Handler) attemptReportHTML(c *fiber.Ctx) (reports.AttemptReport, string, error) {
	id, err := idParam(c, "attemptId")
	if err != nil {
		return reports.AttemptReport{}, "", err
	}
	r, err := h.Attempts.Report(c.UserContext(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		return reports.AttemptReport{}, "", err
	}
	html, err := reports.RenderAttemptHTML(r)
	if err != nil {
		return reports.AttemptReport{}, "", err
	}
	return r, html, nil
}

func (h *Handler) renderPDF(c *fiber.Ctx, html string) ([]byte, error) {
	if h.Reports == nil {
		return nil, &services.Error{Kind: services.KindUpstream, Message: "report rendering is not configured"}
	}
	pdf, err := h.Reports.RenderPDF(c.UserContext(), html)
	if err != nil {
		return nil, &services.Error{Kind: services.KindUpstream, Message: "failed to render report", Err: err}
	}
	return pdf, nil
}

// AttemptReport serves the result sheet as PDF, or as HTML with ?format=html.
func (h *Handler) AttemptReport(c *fiber.Ctx) error {
	r, html, err := h.attemptReportHTML(c)
	if err != nil {
		return err
	}
	if c.Query("format") == "html" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}

	pdf, err := h.renderPDF(c, html)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="attempt-%s.pdf"`, r.AttemptID))
	return c.Send(pdf)
}

// ArchiveAttemptReport renders the PDF and stores it in media storage.
func (h *Handler) ArchiveAttemptReport(c *fiber.Ctx) error {
	r, html, err := h.attemptReportHTML(c)
	if err != nil {
		return err
	}
	pdf, err := h.renderPDF(c, html)
	if err != nil {
		return err
	}
	url, err := h.Media.UploadPDF(c.UserContext(), "attempt_"+r.AttemptID, pdf)
	if err != nil {
		return &services.Error{Kind: services.KindUpstream, Message: "failed to store report", Err: err}
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"url": url})
}
