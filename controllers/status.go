package controllers

import (
	"net/http"

	"chinaekb-forms/utils"
)

// Status — проверка живости сервиса.
func Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, map[string]any{
			"success": true,
			"version": Version,
			"status":  "ok",
		})
	}
}
