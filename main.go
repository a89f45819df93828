package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chinaekb-forms/auth"
	"chinaekb-forms/bridge"
	"chinaekb-forms/config"
	"chinaekb-forms/controllers"
	"chinaekb-forms/driver"
	"chinaekb-forms/files"
	"chinaekb-forms/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Ошибка конфигурации: %v", err)
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Неизвестный уровень логирования %q", cfg.LogLevel)
	}
	log.SetLevel(level)

	db, err := driver.ConnectDB(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := driver.Migrate(db); err != nil {
		log.Fatalf("Ошибка миграции базы данных: %v", err)
	}

	custodian, err := files.NewCustodian(cfg.UploadPath, cfg.DocsPath, log)
	if err != nil {
		log.Fatalf("Не удалось подготовить каталог загрузок: %v", err)
	}
	if err := files.SeedContracts("contracts_templates", cfg.ContractsPath, log); err != nil {
		log.Fatalf("Не удалось разложить шаблоны договоров: %v", err)
	}

	creds, err := auth.NewStaticCredentials(cfg.Reviewers)
	if err != nil {
		log.Fatalf("Ошибка в списке модераторов: %v", err)
	}

	renderer, err := controllers.NewRenderer(cfg.BaseURL)
	if err != nil {
		log.Fatalf("Ошибка разбора шаблонов: %v", err)
	}

	submissions := store.NewSubmissionStore(db)
	contractBridge := bridge.NewClient(cfg.ContractURL, cfg.ContractLogin, cfg.ContractPassword)

	formController := controllers.FormController{Cfg: cfg, Log: log, Store: submissions, Files: custodian, R: renderer}
	moderationController := controllers.ModerationController{Cfg: cfg, Log: log, Store: submissions, Files: custodian, Bridge: contractBridge, R: renderer}
	authController := controllers.AuthController{Cfg: cfg, Log: log, Creds: creds, R: renderer}
	docsController := controllers.DocsController{Cfg: cfg, Log: log, Files: custodian, R: renderer}

	router := mux.NewRouter()
	base := cfg.BaseURL

	router.HandleFunc(base+"/status", controllers.Status()).Methods("GET")
	router.HandleFunc("/favicon.ico", docsController.Favicon()).Methods("GET")
	router.HandleFunc(base+"/static/{path:.*}", docsController.Static()).Methods("GET")
	router.HandleFunc(base+"/docs/{path:.*}", docsController.Docs()).Methods("GET")
	router.HandleFunc(base+"/uploads/{path:.*}", docsController.Uploads()).Methods("GET")

	router.HandleFunc(base+"/", formController.Index()).Methods("GET")
	router.HandleFunc(base+"/forms", formController.FormsPage()).Methods("GET")
	router.HandleFunc(base+"/success", formController.SuccessPage()).Methods("GET")
	for _, variant := range controllers.FormVariants {
		router.HandleFunc(base+"/"+variant.Slug, formController.Form(variant)).Methods("GET", "POST")
	}

	router.HandleFunc(base+"/login", authController.Login()).Methods("GET", "POST")
	router.Handle(base+"/logout", authController.LoginRequired(authController.Logout())).Methods("GET")
	router.Handle(base+"/moderation", authController.LoginRequired(moderationController.List())).Methods("GET", "POST")
	router.Handle(base+"/moderation/{table_name}/student/{student_id:[0-9]+}",
		authController.LoginRequired(moderationController.Detail())).Methods("GET", "POST")

	// исторические ссылки на загруженные файлы идут от корня
	router.NotFoundHandler = docsController.UploadFallback()
	router.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowed)

	log.Infof("Сервер запущен на %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, router))
}
