package controller

import (
	"strconv"

	"semantic-docs-be/internal/dto"
	"semantic-docs-be/internal/pkg/apperr"
	"semantic-docs-be/internal/pkg/serverutils"
	"semantic-docs-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	ImportAll(ctx *fiber.Ctx) error
	ImportFile(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	searchService   service.ISearchService
}

func NewDocumentController(documentService service.IDocumentService, searchService service.ISearchService) IDocumentController {
	return &documentController{
		documentService: documentService,
		searchService:   searchService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("semantic-search", c.SemanticSearch)
	h.Post("import", c.ImportAll)
	h.Post("import-file", c.ImportFile)
	h.Delete("", c.Delete)
}

func (c *documentController) ImportAll(ctx *fiber.Ctx) error {
	var req dto.ImportAllRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.ImportAll(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success import documents", res))
}

func (c *documentController) ImportFile(ctx *fiber.Ctx) error {
	var req dto.ImportFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.ImportFile(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success import document", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	path := ctx.Query("path")

	res, err := c.documentService.Delete(ctx.Context(), path)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", res))
}

func (c *documentController) SemanticSearch(ctx *fiber.Ctx) error {
	query := ctx.Query("query")

	limit := ctx.QueryInt("limit", 10)

	var maxDistance *float64
	if raw := ctx.Query("max_distance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperr.NewValidation("max_distance must be a number")
		}
		maxDistance = &parsed
	}

	res, err := c.searchService.Search(ctx.Context(), query, limit, maxDistance)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}
