package node

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

// confirmDelete asks the operator on in whether the database may be wiped,
// repeating the question until it reads Y or N.
func confirmDelete(in io.Reader, out io.Writer) (bool, error) {
	reader := bufio.NewReader(in)

	if _, err := fmt.Fprintln(out, aurora.Red("This will delete your beacon chain database stored in your data directory. "+
		"Do you want to proceed? (Y/N)")); err != nil {
		return false, err
	}

	for {
		if _, err := fmt.Fprint(out, ">> "); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return false, err
		}
		input := strings.ToUpper(strings.TrimSpace(line))
		switch input {
		case "Y":
			log.Warn("Deleting beaconchain.db from data directory")
			return true, nil
		case "N":
			log.Info("Not deleting chain database, the db will be initialized" +
				" with the current data directory.")
			return false, nil
		default:
			log.Errorf("Invalid option of %s chosen, enter Y/N", strings.TrimSpace(line))
		}
	}
}
