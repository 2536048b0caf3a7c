/*
Package rabbitmq provides a RabbitMQ sink for relayed notifications.
It publishes forwarded notifications to a topic exchange, routed by subject,
and includes an auto-reconnecting publisher.
*/
package rabbitmq
