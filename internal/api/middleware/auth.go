package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/domain"
)

// Заголовки, которыми identity provider передает личность вызывающего
// Сервис доверяет им как есть: проверка учетных данных происходит выше
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type userIDKey struct{}
type userRoleKey struct{}

// Auth извлекает личность вызывающего из заголовков в контекст запроса
// Запросы без корректного X-User-ID отклоняются с 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "отсутствует или некорректен заголовок X-User-ID")
			return
		}

		role := domain.Role(r.Header.Get(HeaderUserRole))
		if role == "" {
			role = domain.RoleBuyer
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		ctx = context.WithValue(ctx, userRoleKey{}, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает ID вызывающего из контекста
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}

// UserRole возвращает роль вызывающего из контекста
func UserRole(ctx context.Context) domain.Role {
	role, _ := ctx.Value(userRoleKey{}).(domain.Role)
	return role
}
