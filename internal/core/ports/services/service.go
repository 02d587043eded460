package services

// ServiceContainer holds instances of all the application services. Each
// binary wires only the routes it serves, but the container shape is shared
// so handlers register uniformly.
type ServiceContainer struct {
	User       UserSvcFacade
	Auth       AuthSvcFacade
	GoogleAuth GoogleAuthSvcFacade
	Product    ProductSvcFacade
	Order      OrderSvcFacade
}
