package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pontoface",
	Short: "Face recognition time and attendance",
	Long: `PontoFace registra ponto por reconhecimento facial: cadastra amostras
de face por funcionário, treina um classificador e marca presença ao vivo
pela câmera, com deduplicação por dia e status Present/Late.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
