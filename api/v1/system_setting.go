package v1

import (
	"encoding/json"
	"net/http"

	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (h *Handler) getGeneralSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSystemGeneralSetting()
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to get general settings"))
		return
	}
	if settings == nil {
		settings = &model.SystemSettingGeneral{}
	}
	response.OK(w, r, settings)
}

func (h *Handler) setGeneralSettings(w http.ResponseWriter, r *http.Request) {
	settings := &model.SystemSettingGeneral{}
	if err := json.NewDecoder(r.Body).Decode(settings); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed settings request"))
		return
	}

	updated, err := h.store.UpsetGeneralSettings(settings)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to save general settings"))
		return
	}
	response.OK(w, r, updated)
}
