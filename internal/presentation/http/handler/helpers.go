package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/printledger/internal/application/service"
	"github.com/sangkips/printledger/internal/presentation/http/dto/response"
	"github.com/sangkips/printledger/pkg/apperror"
)

// recordingView collects what a controller operation showed during one request.
type recordingView struct {
	vm       service.ViewModel
	rendered bool
	alerts   []string
}

func (v *recordingView) Render(vm service.ViewModel) {
	v.vm = vm
	v.rendered = true
}

func (v *recordingView) Alert(message string) {
	v.alerts = append(v.alerts, message)
}

func (v *recordingView) result(ctrl *service.FormController) response.FormResult {
	vm := v.vm
	if !v.rendered {
		vm = ctrl.Snapshot()
	}
	alerts := v.alerts
	if alerts == nil {
		alerts = []string{}
	}
	return response.FormResult{View: vm, Alerts: alerts}
}

// fail responds with the error status, using the last alert as the message.
func fail(c *gin.Context, err error, result response.FormResult) {
	appErr := apperror.GetAppError(err)
	response.ErrorWithData(c, &apperror.AppError{
		Code:    appErr.Code,
		Kind:    appErr.Kind,
		Message: result.LastAlert(appErr.Message),
		Errors:  appErr.Errors,
	}, result)
}
