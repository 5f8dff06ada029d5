package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cineseat/ticketing/internal/model"
)

// RequireRole rejects requests whose authenticated role is not in the allowed
// set.  It must run after JWTAuth, which stores the role under CtxRole.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(CtxRole).(model.Role)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
