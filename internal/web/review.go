package web

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rubiane-edu/finedu-web/internal/service"
)

// reviewURL keeps the status filter of a review list across the
// confirm page and the redirect after an action
func reviewURL(path, status string) string {
	if status == "" {
		return path
	}
	return path + "?" + url.Values{"status": {status}}.Encode()
}

// Enrollments handles GET /admin/enrollments?status=
func (h *AdminHandler) Enrollments(c *gin.Context) {
	list, err := h.services.Admin.Enrollments(c.Request.Context(), currentSession(c), c.Query("status"))
	if err != nil {
		h.fail(c, err, "/admin")
		return
	}
	h.render(c, http.StatusOK, "admin_enrollments.html", "Matrículas", list)
}

// ApproveEnrollment handles POST /admin/enrollments/:id/approve
func (h *AdminHandler) ApproveEnrollment(c *gin.Context) {
	list := reviewURL("/admin/enrollments", service.EnrollmentStatus(c.Query("status")))
	h.destructive(c, list, func(id int) error {
		return h.services.Admin.ApproveEnrollment(c.Request.Context(), currentSession(c), id)
	})
}

// ConfirmCancelEnrollment handles GET /admin/enrollments/:id/cancel
func (h *AdminHandler) ConfirmCancelEnrollment(c *gin.Context) {
	status := service.EnrollmentStatus(c.Query("status"))
	h.confirmReview(c, reviewURL("/admin/enrollments", status), confirmPage{
		Question: "Tem certeza que deseja cancelar esta matrícula?",
		Action:   reviewURL("/admin/enrollments/"+c.Param("id")+"/cancel", status),
		Button:   "Cancelar Matrícula",
	})
}

// CancelEnrollment handles POST /admin/enrollments/:id/cancel
func (h *AdminHandler) CancelEnrollment(c *gin.Context) {
	list := reviewURL("/admin/enrollments", service.EnrollmentStatus(c.Query("status")))
	h.destructive(c, list, func(id int) error {
		return h.services.Admin.CancelEnrollment(c.Request.Context(), currentSession(c), id)
	})
}

// Payments handles GET /admin/payments?status=
func (h *AdminHandler) Payments(c *gin.Context) {
	list, err := h.services.Admin.PaymentProofs(c.Request.Context(), currentSession(c), c.Query("status"))
	if err != nil {
		h.fail(c, err, "/admin")
		return
	}
	h.render(c, http.StatusOK, "admin_payments.html", "Pagamentos", list)
}

// ApprovePayment handles POST /admin/payments/:id/approve
func (h *AdminHandler) ApprovePayment(c *gin.Context) {
	list := reviewURL("/admin/payments", service.PaymentStatus(c.Query("status")))
	h.destructive(c, list, func(id int) error {
		return h.services.Admin.ApprovePayment(c.Request.Context(), currentSession(c), id)
	})
}

// ConfirmRejectPayment handles GET /admin/payments/:id/reject
func (h *AdminHandler) ConfirmRejectPayment(c *gin.Context) {
	status := service.PaymentStatus(c.Query("status"))
	h.confirmReview(c, reviewURL("/admin/payments", status), confirmPage{
		Question: "Tem certeza que deseja rejeitar este comprovante?",
		Action:   reviewURL("/admin/payments/"+c.Param("id")+"/reject", status),
		Button:   "Rejeitar",
	})
}

// RejectPayment handles POST /admin/payments/:id/reject
func (h *AdminHandler) RejectPayment(c *gin.Context) {
	list := reviewURL("/admin/payments", service.PaymentStatus(c.Query("status")))
	h.destructive(c, list, func(id int) error {
		return h.services.Admin.RejectPayment(c.Request.Context(), currentSession(c), id)
	})
}

func (h *AdminHandler) confirmReview(c *gin.Context, back string, page confirmPage) {
	if _, ok := paramID(c); !ok {
		h.fail(c, service.ErrNotFound, back)
		return
	}
	if _, err := h.services.Admin.RequireAdmin(c.Request.Context(), currentSession(c)); err != nil {
		h.fail(c, err, back)
		return
	}
	page.Back = back
	h.render(c, http.StatusOK, "confirm.html", "Confirmar", page)
}
