package accounting

// Codes of the system accounts seeded by EnsureDefaultAccounts.
const (
	CodeCash            = "1001"
	CodeBank            = "1002"
	CodeOpeningStock    = "1101"
	CodeSundryDebtors   = "1201"
	CodeSundryCreditors = "2101"
	CodeSalesIncome     = "4001"
	CodeOtherIncome     = "4002"
	CodeGeneralExpense  = "5001"
	CodeSalaryExpense   = "5002"
	CodeContractExpense = "5003"
)

// SystemAccountSpec describes one seeded system account
type SystemAccountSpec struct {
	Code    string
	Name    string
	Type    AccountType
	SubType AccountSubType
}

// DefaultAccounts returns the fixed set of system accounts every
// installation carries. Seeding is upsert-by-code, insert-only-on-absence.
func DefaultAccounts() []SystemAccountSpec {
	return []SystemAccountSpec{
		{CodeCash, "Cash In Hand", AccountTypeAsset, SubTypeCash},
		{CodeBank, "Bank Account", AccountTypeAsset, SubTypeBank},
		{CodeOpeningStock, "Opening Stock", AccountTypeAsset, SubTypeStock},
		{CodeSundryDebtors, "Sundry Debtors", AccountTypeAsset, SubTypeCustomer},
		{CodeSundryCreditors, "Sundry Creditors", AccountTypeLiability, SubTypeSupplier},
		{CodeSalesIncome, "Sales Income", AccountTypeIncome, SubTypeGeneral},
		{CodeOtherIncome, "Other Income", AccountTypeIncome, SubTypeGeneral},
		{CodeGeneralExpense, "General Expense", AccountTypeExpense, SubTypeGeneral},
		{CodeSalaryExpense, "Salary Expense", AccountTypeExpense, SubTypeGeneral},
		{CodeContractExpense, "Contract Expense", AccountTypeExpense, SubTypeGeneral},
	}
}
