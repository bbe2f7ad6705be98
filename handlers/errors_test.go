package handlers

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"messenger-be/apperrors"
)

func Test_RespondError_Maps_Taxonomy_To_Distinct_Statuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad content", apperrors.ErrValidation), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("%w: no such user", apperrors.ErrNotFound), fiber.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: not a member", apperrors.ErrForbidden), fiber.StatusForbidden},
		{"conflict", fmt.Errorf("%w: already a member", apperrors.ErrConflict), fiber.StatusConflict},
		{"internal", fmt.Errorf("%w: db exploded", apperrors.ErrInternal), fiber.StatusInternalServerError},
		{"unwrapped", fmt.Errorf("something unexpected"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			app := fiber.New()
			app.Get("/boom", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			req.NoError(err)
			req.Equal(tc.wantStatus, resp.StatusCode)
		})
	}
}
