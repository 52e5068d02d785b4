// claractl administra perfiles de sesión y emite tokens de operador
// contra el mismo almacén que usa la API (STORE_DRIVER=postgres|sqlite).
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
