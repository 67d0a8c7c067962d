package analysis

import (
	"errors"
	"io"
	"strconv"

	"github.com/katie878/motion-tracking/internal/batch"
	"github.com/katie878/motion-tracking/internal/store"

	"github.com/gofiber/fiber/v2"
)

const defaultWorkspace = "default"

func RegisterRoutes(r fiber.Router, svc *batch.Service, st *store.Store, defaultFPS float64) {
	r.Post("/batches", func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "multipart form required")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "at least one file required")
		}

		fps := defaultFPS
		if raw := formValue(form.Value, "fps"); raw != "" {
			fps, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, batch.ErrInvalidFPS.Error())
			}
		}

		workspace := formValue(form.Value, "workspace")
		if workspace == "" {
			workspace = defaultWorkspace
		}

		uploads := make([]batch.Upload, 0, len(headers))
		for _, fh := range headers {
			fh := fh
			uploads = append(uploads, batch.Upload{
				Name: fh.Filename,
				Open: func() (io.ReadCloser, error) { return fh.Open() },
			})
		}

		records, err := svc.Process(workspace, fps, uploads)
		if errors.Is(err, batch.ErrInvalidFPS) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, batch.ErrBatchFailed.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(records)
	})

	r.Get("/files", func(c *fiber.Ctx) error {
		return c.JSON(st.Files(c.Query("sort"), c.Query("dir")))
	})

	r.Delete("/files", func(c *fiber.Ctx) error {
		st.Reset()
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/groups", func(c *fiber.Ctx) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}
		return c.Status(fiber.StatusCreated).JSON(st.CreateGroup(req.Name))
	})

	r.Get("/groups", func(c *fiber.Ctx) error {
		return c.JSON(st.Groups())
	})

	r.Put("/files/:id/group", func(c *fiber.Ctx) error {
		var req struct {
			GroupID string `json:"group_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.GroupID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "group_id required")
		}
		record, err := st.AssignGroup(c.Params("id"), req.GroupID)
		if errors.Is(err, store.ErrFileNotFound) || errors.Is(err, store.ErrGroupNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(record)
	})
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
