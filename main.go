package main

import "github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/cmd"

func main() {
	cmd.Execute()
}
