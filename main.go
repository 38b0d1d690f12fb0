package main

import (
	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/routes"
	"github.com/blogicum/blogicum/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase()

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.Serve(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
