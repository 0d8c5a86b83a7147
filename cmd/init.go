package cmd

var (
	configPath   string
	siteName     string
	outputFormat string

	page int

	downloadDirectory string
	naming            string
	seriesURL         string
	scanlator         string

	chapterNumbers string
	first          bool
	latest         bool
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&siteName,
		"site",
		"s",
		"",
		"specifies the site to use, overrides the config. one of: mangalivre, leitornet",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat,
		"output",
		"o",
		"text",
		"specifies the output format. one of: text, json, yaml",
	)
}

func initListingFlags() {
	popularCmd.Flags().IntVarP(
		&page,
		"page",
		"p",
		1,
		"specifies the page of the listing",
	)
	latestCmd.Flags().IntVarP(
		&page,
		"page",
		"p",
		1,
		"specifies the page of the listing",
	)
}

func initDownloadFlags() {
	downloadCmd.Flags().StringVarP(
		&downloadDirectory,
		"downloadDirectory",
		"d",
		"",
		"specifies the directory where you want to save your downloads to, overrides the config",
	)
	downloadCmd.Flags().StringVarP(
		&naming,
		"naming",
		"n",
		"",
		"specifies the naming template you want to use for naming chapters, overrides the config",
	)
	downloadCmd.Flags().StringVarP(
		&seriesURL,
		"series",
		"m",
		"",
		"specifies the url of the series you want to download",
	)
	downloadCmd.Flags().StringVarP(
		&scanlator,
		"scanlator",
		"g",
		"",
		"specifies the scanlator you want to download the chapter from",
	)

	downloadCmd.Flags().StringVarP(
		&chapterNumbers,
		"chapters",
		"C",
		"",
		"specifies the chapter numbers you want to download, e.g. 1-5,7",
	)
	downloadCmd.Flags().BoolVarP(
		&first,
		"first",
		"1",
		false,
		"download the first chapter",
	)
	downloadCmd.Flags().BoolVarP(
		&latest,
		"latest",
		"L",
		false,
		"download the latest chapter",
	)

	downloadCmd.MarkFlagsMutuallyExclusive("first", "chapters")
	downloadCmd.MarkFlagsMutuallyExclusive("latest", "chapters")
	downloadCmd.MarkFlagsMutuallyExclusive("first", "latest")

	_ = downloadCmd.MarkFlagRequired("series")
}
