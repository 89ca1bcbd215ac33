package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "tandem-bridge",
	Short: "Bridge between the WTEC sensor gateway and Autodesk Tandem",
	Long:  `Bridge between the WTEC sensor gateway and Autodesk Tandem`,
	Run: func(cmd *cobra.Command, args []string) {
		runBridge()
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	viper.SetConfigFile("secrets.json")
}

func initConfig() {
	viper.SetConfigFile("secrets.json")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}
