package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"licentia/internal/eligibility"
	"licentia/internal/fees"
	"licentia/internal/workflow"
	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
	"licentia/pkg/platform/httputil"
	"licentia/pkg/requestcontext"
)

// Service defines the interface for workflow operations.
type Service interface {
	Start(ctx context.Context, personID domain.PersonID, appType domain.ApplicationType, locationID string) (*workflow.State, error)
	Get(ctx context.Context, id domain.WorkflowID) (*workflow.State, error)
	Abandon(ctx context.Context, id domain.WorkflowID) error
	SetApplicationType(ctx context.Context, id domain.WorkflowID, appType domain.ApplicationType) (*workflow.State, error)
	SelectCategory(ctx context.Context, id domain.WorkflowID, category domain.LicenseCategory, professional []domain.LicenseCategory) (*workflow.State, error)
	UpdateDeclarations(ctx context.Context, id domain.WorkflowID, declarations eligibility.Declarations, consentDocumentRef string) (*workflow.State, error)
	UpdateNoticeOfChange(ctx context.Context, id domain.WorkflowID, notice workflow.NoticeOfChange) (*workflow.State, error)
	UpdateMedical(ctx context.Context, id domain.WorkflowID, record eligibility.MedicalRecord) (*workflow.State, error)
	UpdateBiometrics(ctx context.Context, id domain.WorkflowID, biometrics workflow.Biometrics) (*workflow.State, error)
	SelectFees(ctx context.Context, id domain.WorkflowID, feeIDs []string) (*workflow.State, error)
	VerifyClaim(ctx context.Context, id domain.WorkflowID, category domain.LicenseCategory) (*workflow.State, error)
	ValidateStep(ctx context.Context, id domain.WorkflowID) (*workflow.State, eligibility.Outcome, error)
	Advance(ctx context.Context, id domain.WorkflowID) (*workflow.State, eligibility.Outcome, error)
	Back(ctx context.Context, id domain.WorkflowID) (*workflow.State, error)
	Submit(ctx context.Context, id domain.WorkflowID) (*workflow.State, eligibility.Outcome, error)
	Quote(ctx context.Context, id domain.WorkflowID) (fees.Quote, error)
}

// Handler wires workflow endpoints to the sequencer service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a workflow handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts workflow endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/workflows", func(r chi.Router) {
		r.Post("/", h.HandleStart)
		r.Route("/{workflowID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleAbandon)
			r.Put("/application-type", h.HandleSetApplicationType)
			r.Put("/category", h.HandleSelectCategory)
			r.Put("/declarations", h.HandleDeclarations)
			r.Put("/notice-of-change", h.HandleNoticeOfChange)
			r.Put("/medical", h.HandleMedical)
			r.Put("/biometrics", h.HandleBiometrics)
			r.Put("/fees", h.HandleSelectFees)
			r.Get("/quote", h.HandleQuote)
			r.Post("/claims/{category}/verify", h.HandleVerifyClaim)
			r.Post("/validate", h.HandleValidate)
			r.Post("/advance", h.HandleAdvance)
			r.Post("/back", h.HandleBack)
			r.Post("/submit", h.HandleSubmit)
		})
	})
}

// HandleStart handles POST /workflows.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[StartRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	personID, err := req.ParsedPersonID()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	appType, err := req.ParsedApplicationType()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	locationID := req.LocationID
	if locationID == "" {
		locationID = requestcontext.LocationID(ctx)
	}

	state, err := h.service.Start(ctx, personID, appType, locationID)
	if err != nil {
		h.writeServiceError(ctx, w, "workflow start failed", requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "workflow started",
		"request_id", requestID,
		"workflow_id", state.ID.String(),
		"application_type", appType.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromState(state))
}

// HandleGet handles GET /workflows/{workflowID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.Get(ctx, id)
	})
}

// HandleAbandon handles DELETE /workflows/{workflowID}.
func (h *Handler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := workflowID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Abandon(ctx, id); err != nil {
		h.writeServiceError(ctx, w, "workflow abandon failed", requestcontext.RequestID(ctx), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetApplicationType handles PUT /workflows/{workflowID}/application-type.
func (h *Handler) HandleSetApplicationType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[ApplicationTypeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	appType, err := domain.ParseApplicationType(req.ApplicationType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.SetApplicationType(ctx, id, appType)
	})
}

// HandleSelectCategory handles PUT /workflows/{workflowID}/category.
func (h *Handler) HandleSelectCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CategoryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	category, err := req.ParsedCategory()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	professional, err := req.ParsedProfessionalCategories()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.SelectCategory(ctx, id, category, professional)
	})
}

// HandleDeclarations handles PUT /workflows/{workflowID}/declarations.
func (h *Handler) HandleDeclarations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[DeclarationsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.UpdateDeclarations(ctx, id, req.Declarations(), req.ConsentDocumentRef)
	})
}

// HandleNoticeOfChange handles PUT /workflows/{workflowID}/notice-of-change.
func (h *Handler) HandleNoticeOfChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[NoticeOfChangeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.UpdateNoticeOfChange(ctx, id, req.Notice())
	})
}

// HandleMedical handles PUT /workflows/{workflowID}/medical.
func (h *Handler) HandleMedical(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[MedicalRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.UpdateMedical(ctx, id, req.Record())
	})
}

// HandleBiometrics handles PUT /workflows/{workflowID}/biometrics.
func (h *Handler) HandleBiometrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BiometricsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.UpdateBiometrics(ctx, id, req.Biometrics())
	})
}

// HandleSelectFees handles PUT /workflows/{workflowID}/fees.
func (h *Handler) HandleSelectFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[FeesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.SelectFees(ctx, id, req.FeeIDs)
	})
}

// HandleQuote handles GET /workflows/{workflowID}/quote.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := workflowID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	quote, err := h.service.Quote(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "fee quote failed", requestcontext.RequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

// HandleVerifyClaim handles POST /workflows/{workflowID}/claims/{category}/verify.
func (h *Handler) HandleVerifyClaim(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseLicenseCategory(chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withWorkflow(w, r, func(ctx context.Context, id domain.WorkflowID) (*workflow.State, error) {
		return h.service.VerifyClaim(ctx, id, category)
	})
}

// HandleValidate handles POST /workflows/{workflowID}/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	h.withOutcome(w, r, h.service.ValidateStep)
}

// HandleAdvance handles POST /workflows/{workflowID}/advance.
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.withOutcome(w, r, h.service.Advance)
}

// HandleBack handles POST /workflows/{workflowID}/back.
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	h.withWorkflow(w, r, h.service.Back)
}

// HandleSubmit handles POST /workflows/{workflowID}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.withOutcome(w, r, h.service.Submit)
}

func (h *Handler) withWorkflow(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.WorkflowID) (*workflow.State, error)) {
	ctx := r.Context()
	id, err := workflowID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	state, err := fn(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "workflow operation failed", requestcontext.RequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromState(state))
}

func (h *Handler) withOutcome(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.WorkflowID) (*workflow.State, eligibility.Outcome, error)) {
	ctx := r.Context()
	id, err := workflowID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	state, outcome, err := fn(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "workflow validation failed", requestcontext.RequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOutcome(outcome, state))
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg, requestID string, err error) {
	if h.logger != nil {
		level := slog.LevelError
		if code := dErrors.CodeOf(err); code == dErrors.CodeNotFound || code == dErrors.CodeBadRequest || code == dErrors.CodeInvalidInput || code == dErrors.CodeConflict {
			level = slog.LevelWarn
		}
		h.logger.Log(ctx, level, msg,
			"request_id", requestID,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func workflowID(r *http.Request) (domain.WorkflowID, error) {
	return domain.ParseWorkflowID(chi.URLParam(r, "workflowID"))
}
