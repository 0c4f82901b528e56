package main

import (
	"log"

	"github.com/duolink/cotizador/internal/server"

	_ "github.com/duolink/cotizador/database/migrations"
	_ "github.com/duolink/cotizador/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
