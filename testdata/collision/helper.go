package risky

func riskyFunction() {}
