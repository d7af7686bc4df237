package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/auth"
	"github.com/dayplan-app/dayplan-backend/pkg/communication"
	"github.com/dayplan-app/dayplan-backend/pkg/environment"
	"github.com/dayplan-app/dayplan-backend/pkg/locking"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/dayplan-app/dayplan-backend/pkg/planning"
	"github.com/dayplan-app/dayplan-backend/pkg/users"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	var logging logger.Interface = logger.Logger{}
	fmt.Println("Server is starting up...")

	err := environment.Initialize()
	if err != nil {
		log.Fatal(err)
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(environment.Global.DatabaseURL))
	if err != nil {
		log.Fatal(err)
	}

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		log.Panic(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Panic(err)
	}

	defer func() {
		err := client.Disconnect(ctx)
		if err != nil {
			logging.Fatal(err)
		}
	}()

	fmt.Println("Database connected")

	db := client.Database(environment.Global.Database)

	userCollection := db.Collection("Users")
	taskCollection := db.Collection("Tasks")
	ruleCollection := db.Collection("UnavailabilityRules")

	// a configured redis shares locks and plans across instances,
	// without it everything stays in process memory
	var locker locking.LockerInterface = locking.NewLockerMemory()
	var planCache planning.PlanCacheInterface

	if environment.Global.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     environment.Global.Redis,
			Password: environment.Global.RedisPassword,
		})

		err = redisClient.Ping(ctx).Err()
		if err != nil {
			log.Panic(err)
		}

		locker = locking.NewLockerRedis(redisClient)
		planCache, err = planning.NewPlanCacheRedis(redisClient)
		if err != nil {
			log.Panic(err)
		}

		fmt.Println("Redis connected")
	} else {
		planCache, err = planning.NewPlanCacheMemory()
		if err != nil {
			log.Panic(err)
		}
	}

	responseManager := communication.ResponseManager{Logger: logging}

	var userRepository users.UserRepositoryInterface = &users.UserRepository{DB: userCollection, Logger: logging}
	userHandler := users.Handler{
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	var taskRepository planning.TaskRepositoryInterface = &planning.TaskRepository{DB: taskCollection, Logger: logging}
	var ruleRepository planning.RuleRepositoryInterface = &planning.RuleRepository{DB: ruleCollection, Logger: logging}
	planningHandler := planning.Handler{
		TaskRepository:  taskRepository,
		RuleRepository:  ruleRepository,
		UserRepository:  userRepository,
		PlanCache:       planCache,
		Locker:          locker,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	authMiddleware := auth.AuthenticationMiddleware{
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the API! ✔")
		if err != nil {
			log.Printf("Error: %v\n", err)
		}
	})

	unauthenticated := r.PathPrefix("/v1/auth").Subrouter()
	unauthenticated.HandleFunc("/register", userHandler.UserRegister).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/login", userHandler.UserLogin).Methods(http.MethodPost)

	authenticated := r.PathPrefix("/v1").Subrouter()
	authenticated.Use(authMiddleware.Middleware)

	authenticated.HandleFunc("/user", userHandler.UserGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/user/settings", userHandler.UserSettingsPatch).Methods(http.MethodPatch)

	authenticated.HandleFunc("/tasks", planningHandler.TaskAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/tasks", planningHandler.TaskGetAll).Methods(http.MethodGet)
	authenticated.HandleFunc("/tasks/{taskID}", planningHandler.TaskGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/tasks/{taskID}", planningHandler.TaskUpdate).Methods(http.MethodPatch)
	authenticated.HandleFunc("/tasks/{taskID}", planningHandler.TaskDelete).Methods(http.MethodDelete)

	authenticated.HandleFunc("/unavailability", planningHandler.RuleAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/unavailability", planningHandler.RuleGetAll).Methods(http.MethodGet)
	authenticated.HandleFunc("/unavailability/{ruleID}", planningHandler.RuleUpdate).Methods(http.MethodPut)
	authenticated.HandleFunc("/unavailability/{ruleID}", planningHandler.RuleDelete).Methods(http.MethodDelete)

	authenticated.HandleFunc("/plan/{date}", planningHandler.PlanGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/plan/{date}", planningHandler.PlanRegenerate).Methods(http.MethodPost)
	authenticated.HandleFunc("/plan/{date}/unavailable", planningHandler.PlanAddUnavailable).Methods(http.MethodPost)
	authenticated.HandleFunc("/plan/{date}/blocks/{blockID}/move", planningHandler.PlanBlockMove).Methods(http.MethodPost)
	authenticated.HandleFunc("/plan/{date}/blocks/{blockID}", planningHandler.PlanBlockDelete).Methods(http.MethodDelete)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			if environment.Global.Cors != "" {
				w.Header().Add("Access-Control-Allow-Origin", environment.Global.Cors)
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Add("X-Request-ID", requestID)
			next.ServeHTTP(w, r)
		})
	})

	port := environment.Global.Port
	if port == "" {
		port = "80"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 30,
	}

	go func() {
		fmt.Printf("Listening on port %s\n", port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logging.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*30)
	defer shutdownCancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		logging.Error("Problem shutting the server down", err)
	}
}
