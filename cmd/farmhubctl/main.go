// Package main farmhubctl: tareas administrativas sobre la base PostgreSQL de FarmHub
// (migraciones, super_admin inicial, sucursales y licencia).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
