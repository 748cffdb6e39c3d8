package v1

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/middleware"
	"github.com/openshelf/openshelf/realtime"
	"github.com/openshelf/openshelf/storage"
	"github.com/openshelf/openshelf/store"
	"github.com/openshelf/openshelf/worker"
	"go.uber.org/zap"
)

type Handler struct {
	store     *store.Store
	imagePool worker.WorkPool
	uploads   storage.Storage
	hub       *realtime.Hub
	router    *mux.Router
}

func NewHandler(store *store.Store, imagePool worker.WorkPool, uploads storage.Storage, hub *realtime.Hub) *Handler {
	return &Handler{
		store:     store,
		imagePool: imagePool,
		uploads:   uploads,
		hub:       hub,
	}
}

func Server(router *mux.Router, handler *Handler) {
	handler.router = router

	sr := router.PathPrefix("/api/v1").Subrouter()
	m := middleware.NewMiddleware(handler.store)
	sr.Use(m.HandleCORS)
	sr.Use(m.LoggingRequest)

	sSetting, err := handler.store.GetOrUpsetSystemSecuritySetting()
	if err != nil {
		log.Logger.Error("Error getting security setting", zap.Error(err))
		os.Exit(1)
	}
	jwtSecret := sSetting.JWTSecret
	// Add authentication middleware
	sr.Use(NewAuthInterceptor(handler.store, jwtSecret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	// Accounts
	sr.HandleFunc("/signup", handler.signUp).Methods(http.MethodPost)
	sr.HandleFunc("/signin", handler.signIn).Methods(http.MethodPost)
	sr.HandleFunc("/signout", handler.signOut).Methods(http.MethodPost)
	sr.HandleFunc("/me", handler.currentUser).Methods(http.MethodGet)
	sr.HandleFunc("/me/loans", handler.listOwnLoans).Methods(http.MethodGet)
	sr.HandleFunc("/admin/users", handler.listUsers).Methods(http.MethodGet)
	sr.HandleFunc("/admin/users/{id}", handler.archiveUser).Methods(http.MethodDelete)

	// Settings
	sr.HandleFunc("/settings/general", handler.setGeneralSettings).Methods(http.MethodPost)
	sr.HandleFunc("/settings/general", handler.getGeneralSettings).Methods(http.MethodGet)

	// Catalog
	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.createBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}", handler.updateBook).Methods(http.MethodPatch, http.MethodPut)
	sr.HandleFunc("/books/{id}", handler.deleteBook).Methods(http.MethodDelete)
	sr.HandleFunc("/categories", handler.listCategories).Methods(http.MethodGet)
	sr.HandleFunc("/categories", handler.createCategory).Methods(http.MethodPost)
	sr.HandleFunc("/categories/{id}", handler.deleteCategory).Methods(http.MethodDelete)

	// Members
	sr.HandleFunc("/members", handler.listMembers).Methods(http.MethodGet)
	sr.HandleFunc("/members", handler.createMember).Methods(http.MethodPost)
	sr.HandleFunc("/members/next-register-number", handler.nextRegisterNumber).Methods(http.MethodGet)
	sr.HandleFunc("/members/{id}", handler.getMember).Methods(http.MethodGet)
	sr.HandleFunc("/members/{id}", handler.updateMember).Methods(http.MethodPatch, http.MethodPut)
	sr.HandleFunc("/members/{id}", handler.deleteMember).Methods(http.MethodDelete)
	sr.HandleFunc("/members/{id}/loans", handler.listMemberLoans).Methods(http.MethodGet)

	// Circulation
	sr.HandleFunc("/circulation", handler.listCirculation).Methods(http.MethodGet)
	sr.HandleFunc("/circulation/issue", handler.issueBook).Methods(http.MethodPost)
	sr.HandleFunc("/circulation/return-by-book", handler.returnBookByBook).Methods(http.MethodPost)
	sr.HandleFunc("/circulation/{id}/return", handler.returnBook).Methods(http.MethodPost)
	sr.HandleFunc("/circulation/{id}/renew", handler.renewBook).Methods(http.MethodPost)
	sr.HandleFunc("/circulation/{id}/pay-fine", handler.payFine).Methods(http.MethodPost)

	// QR scanning
	sr.HandleFunc("/scan/resolve", handler.resolveScan).Methods(http.MethodGet)

	// Feedback
	sr.HandleFunc("/feedback", handler.createFeedback).Methods(http.MethodPost)
	sr.HandleFunc("/feedback", handler.listFeedback).Methods(http.MethodGet)
	sr.HandleFunc("/feedback/moderate/{id}", handler.moderateFeedback).Methods(http.MethodPost)

	// Community posts
	sr.HandleFunc("/posts", handler.listPosts).Methods(http.MethodGet)
	sr.HandleFunc("/posts/{id}", handler.getPost).Methods(http.MethodGet)
	sr.HandleFunc("/posts/{id}/like", handler.likePost).Methods(http.MethodPost)
	sr.HandleFunc("/posts/{id}/share", handler.sharePost).Methods(http.MethodPost)
	sr.HandleFunc("/posts/{id}/comments", handler.listPostComments).Methods(http.MethodGet)
	sr.HandleFunc("/posts/{id}/comments", handler.createPostComment).Methods(http.MethodPost)
	sr.HandleFunc("/admin/posts", handler.createPost).Methods(http.MethodPost)
	sr.HandleFunc("/admin/posts/{id}", handler.archivePost).Methods(http.MethodDelete)
	sr.HandleFunc("/admin/posts/comments/{id}/approve", handler.approvePostComment).Methods(http.MethodPost)
	sr.HandleFunc("/admin/posts/comments/{id}", handler.deletePostComment).Methods(http.MethodDelete)

	// Reports
	sr.HandleFunc("/reports/summary", handler.reportSummary).Methods(http.MethodGet)
	sr.HandleFunc("/reports/most-read", handler.reportMostRead).Methods(http.MethodGet)
	sr.HandleFunc("/reports/active-members", handler.reportActiveMembers).Methods(http.MethodGet)
	sr.HandleFunc("/reports/categories", handler.reportCategories).Methods(http.MethodGet)
	sr.HandleFunc("/reports/books/{id}/readers", handler.reportBookReaders).Methods(http.MethodGet)
	sr.HandleFunc("/reports/members/{id}/books", handler.reportMemberBooks).Methods(http.MethodGet)
}
