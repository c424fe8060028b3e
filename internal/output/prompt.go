package output

import "github.com/AlecAivazis/survey/v2"

// Confirm prompts the user to confirm an action with a yes/no question.
func Confirm(prompt string) (bool, error) {
	result := false
	c := &survey.Confirm{
		Message: prompt,
	}
	err := survey.AskOne(c, &result)
	return result, err
}

// Select asks the user to pick one of options and returns its index.
func Select(prompt string, options []string) (int, error) {
	var idx int
	s := &survey.Select{
		Message: prompt,
		Options: options,
	}
	err := survey.AskOne(s, &idx)
	return idx, err
}
