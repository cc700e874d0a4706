package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ansmoon/bbogle/internal/app"
)

func main() {
	// .env 파일이 있으면 읽어들인다. 없으면 실제 환경 변수를 그대로 사용한다.
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bbogle: %v\n", err)
		os.Exit(1)
	}
}
