package repoargs

type RepositoryName string

const (
	UserRepoName        RepositoryName = "user"
	ProductRepoName     RepositoryName = "product"
	OrderRepoName       RepositoryName = "order"
	TransactionRepoName RepositoryName = "transaction"
	CartRepoName        RepositoryName = "cart"
	WishlistRepoName    RepositoryName = "wishlist"
	SettingsRepoName    RepositoryName = "settings"
)
