// main.go
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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"freshmart/controllers"
	"freshmart/live"
	"freshmart/routes"
	"freshmart/store"
	"freshmart/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "freshmart"
	}
	st := store.New(client, dbName)

	// Redis backs OTP delivery and admin session revocation
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	emailService := utils.NewEmailService()
	otpStore := utils.NewOTPStore(rdb)
	sessions := utils.NewSessionStore(rdb)

	// Initialize controllers
	c := routes.Controllers{
		Users:       controllers.NewUserController(st, otpStore),
		Products:    controllers.NewProductController(st),
		Carts:       controllers.NewCartController(st),
		Wishlists:   controllers.NewWishlistController(st),
		Orders:      controllers.NewOrderController(st, emailService),
		Admins:      controllers.NewAdminController(st, sessions),
		AdminOrders: controllers.NewAdminOrderController(st, emailService),
	}

	// The gateway mirrors the orders and users collections over websockets
	gateway := live.NewGateway(st)
	gateway.Start(context.Background())
	defer gateway.Stop()

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c, st, sessions, gateway)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server is running on port %s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
