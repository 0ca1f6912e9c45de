package rest

import (
	"errors"
	"strconv"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/AzielCF/wap-gatekeeper/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Access struct {
	Service    domainAccess.IAccessUsecase
	Documents  domainAccess.IDocumentStore
	ConfigPath string
}

func InitRestAccess(app fiber.Router, service domainAccess.IAccessUsecase, documents domainAccess.IDocumentStore, configPath string) Access {
	rest := Access{Service: service, Documents: documents, ConfigPath: configPath}

	group := app.Group("/access/:domain")
	group.Get("/pending", rest.ListPending)
	group.Post("/pending", rest.SubmitPending)
	group.Delete("/pending", rest.TruncatePending)
	group.Post("/pending/:index/approve", rest.ApprovePending)
	group.Get("/allowed", rest.ListAllowed)
	group.Get("/allowed/:id", rest.CheckAllowed)
	group.Delete("/allowed/:id", rest.RemoveAllowed)

	return rest
}

type listResponse struct {
	Summary string                `json:"summary"`
	Entries []domainAccess.Entry `json:"entries"`
}

// asGeneric maps any error onto a code and status; untyped errors are
// internal server errors.
func asGeneric(err error) pkgError.GenericError {
	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		return generic
	}
	return pkgError.InternalServerError(err.Error())
}

func errorResponse(c *fiber.Ctx, err error) error {
	generic := asGeneric(err)
	return c.Status(generic.StatusCode()).JSON(utils.ResponseData{
		Status:  generic.StatusCode(),
		Code:    generic.ErrCode(),
		Message: err.Error(),
	})
}

// transitionResponse keeps the operator message and picks the status from the
// outcome. missing marks a no-op as a lookup that found nothing.
func transitionResponse(c *fiber.Ctx, res domainAccess.Result, missing bool) error {
	var err error
	switch {
	case res.Outcome == domainAccess.OutcomeInvalid, res.Outcome == domainAccess.OutcomeFailed:
		err = res.Err
		if err == nil {
			err = pkgError.InternalServerError(res.Message)
		}
		logrus.WithError(err).WithField("outcome", res.Outcome).Warn("[REST] Transition did not apply")
	case res.Outcome == domainAccess.OutcomeNoop && missing:
		err = pkgError.NotFoundError(res.Message)
	}

	if err != nil {
		generic := asGeneric(err)
		return c.Status(generic.StatusCode()).JSON(utils.ResponseData{
			Status:  generic.StatusCode(),
			Code:    generic.ErrCode(),
			Message: res.Message,
			Results: fiber.Map{"outcome": res.Outcome},
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: res.Message,
		Results: fiber.Map{"outcome": res.Outcome},
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(400).JSON(utils.ResponseData{
		Status:  400,
		Code:    "BAD_REQUEST",
		Message: message,
		Results: nil,
	})
}

// prepare resolves the route domain and loads the configuration fresh, so
// edits made by other processes are always visible.
func (h *Access) prepare(c *fiber.Ctx) (domainAccess.Domain, *config.Document, error) {
	domain, err := domainAccess.ParseDomain(c.Params("domain"))
	if err != nil {
		return "", nil, pkgError.ValidationError(err.Error())
	}
	doc, err := h.Documents.Load(c.UserContext(), h.ConfigPath)
	if err != nil {
		logrus.WithError(err).Error("[REST] Failed to load configuration")
		return "", nil, err
	}
	return domain, doc, nil
}

func (h *Access) ListPending(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}
	entries, err := h.Service.PendingEntries(c.UserContext(), domain, doc)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Pending entries fetched",
		Results: listResponse{
			Summary: h.Service.ListPending(c.UserContext(), domain, doc),
			Entries: entries,
		},
	})
}

func (h *Access) ListAllowed(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}
	entries, err := h.Service.AllowedEntries(c.UserContext(), domain, doc)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Allowed entries fetched",
		Results: listResponse{
			Summary: h.Service.ListAllowed(c.UserContext(), domain, doc),
			Entries: entries,
		},
	})
}

func (h *Access) CheckAllowed(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}
	id := c.Params("id")
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Access checked",
		Results: fiber.Map{"id": id, "allowed": h.Service.IsAllowed(c.UserContext(), domain, id, doc)},
	})
}

func (h *Access) ApprovePending(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "index must be a number")
	}
	return transitionResponse(c, h.Service.Approve(c.UserContext(), domain, index, doc), false)
}

// RemoveAllowed answers 404 when nothing matched; the configuration file is
// not written in that case.
func (h *Access) RemoveAllowed(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return transitionResponse(c, h.Service.Remove(c.UserContext(), domain, c.Params("id"), doc), true)
}

func (h *Access) TruncatePending(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return transitionResponse(c, h.Service.Truncate(c.UserContext(), domain, doc), false)
}

func (h *Access) SubmitPending(c *fiber.Ctx) error {
	domain, doc, err := h.prepare(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var outcome domainAccess.SubmitOutcome
	switch domain {
	case domainAccess.DomainUser:
		var req domainAccess.UserEntry
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err.Error())
		}
		outcome, err = h.Service.SubmitUser(c.UserContext(), req, doc)
	case domainAccess.DomainGroup:
		var req domainAccess.GroupEntry
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err.Error())
		}
		outcome, err = h.Service.SubmitGroup(c.UserContext(), req, doc)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Submission processed",
		Results: fiber.Map{"outcome": outcome},
	})
}
