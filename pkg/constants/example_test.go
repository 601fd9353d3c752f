package constants_test

import (
	"fmt"
	"time"

	"github.com/agentstation/livingset/pkg/constants"
)

// Example shows how the naming constants compose into the three file roles.
func Example() {
	stem := "striking_data"
	asOf := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

	fmt.Println(stem + constants.LivingSuffix + constants.CSVExtension)
	fmt.Println(stem + constants.LatestSuffix + constants.CSVExtension)
	fmt.Println(stem + constants.LivingSuffix + "_" + asOf.Format(constants.BackupDateLayout) + constants.CSVExtension)
	// Output:
	// striking_data_living.csv
	// striking_data_latest.csv
	// striking_data_living_20240309.csv
}
